package models

import "time"

// Tutor is the profile of a person offering classes.
type Tutor struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Avatar    string    `db:"avatar" json:"avatar"`
	Whatsapp  string    `db:"whatsapp" json:"whatsapp"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
