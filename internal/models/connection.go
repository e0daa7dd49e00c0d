package models

import "time"

// Connection records a student contacting a tutor.
type Connection struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConnectionFilter narrows connection counts.
type ConnectionFilter struct {
	UserID  string
	Subject string
}
