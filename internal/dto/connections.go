package dto

// CreateConnectionRequest records a contact with a tutor.
type CreateConnectionRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Subject string `json:"subject" validate:"omitempty,max=255"`
}

// ConnectionTotal is the body returned when counting connections.
type ConnectionTotal struct {
	Total int `json:"total"`
}
