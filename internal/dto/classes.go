package dto

// ScheduleItem is one weekly availability window as sent by clients.
// WeekDay is a pointer so an omitted day is rejected instead of read as 0.
type ScheduleItem struct {
	WeekDay *int   `json:"week_day" validate:"required"`
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
}

// CreateClassRequest registers a tutor together with one class and its schedule.
type CreateClassRequest struct {
	Name     string         `json:"name" validate:"required,max=255"`
	Avatar   string         `json:"avatar" validate:"omitempty,max=2048"`
	Whatsapp string         `json:"whatsapp" validate:"omitempty,max=64"`
	Bio      string         `json:"bio"`
	Subject  string         `json:"subject" validate:"required,max=255"`
	Cost     float64        `json:"cost" validate:"gte=0"`
	Schedule []ScheduleItem `json:"schedule" validate:"dive"`
}

// ClassCreated carries the identifiers generated by a registration.
type ClassCreated struct {
	TutorID string `json:"user_id"`
	ClassID string `json:"class_id"`
	Slots   int    `json:"slots"`
}

// ClassSearchQuery holds the raw search filters from the query string.
type ClassSearchQuery struct {
	Subject string `form:"subject"`
	WeekDay string `form:"week_day"`
	Time    string `form:"time"`
}

// ScheduleSlotView renders a stored slot with wall-clock bounds.
type ScheduleSlotView struct {
	WeekDay int    `json:"week_day"`
	From    string `json:"from"`
	To      string `json:"to"`
}
