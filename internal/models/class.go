package models

import "time"

// Class is a tutor's offering of one subject at an hourly cost.
type Class struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Cost      float64   `db:"cost" json:"cost"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassSchedule is one weekly window, in minutes since midnight, during
// which a class is available. The window is half-open: [From, To).
type ClassSchedule struct {
	ID      string `db:"id" json:"id"`
	ClassID string `db:"class_id" json:"class_id"`
	WeekDay int    `db:"week_day" json:"week_day"`
	From    int    `db:"from" json:"from"`
	To      int    `db:"to" json:"to"`
}

// Covers reports whether the slot includes minute on weekDay.
func (s ClassSchedule) Covers(weekDay, minute int) bool {
	return s.WeekDay == weekDay && s.From <= minute && s.To > minute
}

// ClassWithTutor is a search result: the class joined with its tutor.
type ClassWithTutor struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Cost      float64   `db:"cost" json:"cost"`
	Name      string    `db:"name" json:"name"`
	Avatar    string    `db:"avatar" json:"avatar"`
	Whatsapp  string    `db:"whatsapp" json:"whatsapp"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassSearchFilter is a normalised availability query.
type ClassSearchFilter struct {
	Subject string
	WeekDay int
	Minute  int
}
