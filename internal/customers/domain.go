// Package customers tracks customer leads captured by branch staff.
package customers

import "github.com/salescope/salescope/internal/record"

// Lead statuses as entered by staff; free progression, no state machine.
const (
	StatusInterested = "interested"
	StatusFollowUp   = "follow-up"
	StatusClosed     = "closed"
)

// Customer is one lead entry.
type Customer struct {
	record.Owned
	Date    string `json:"date"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Product string `json:"product"`
	Status  string `json:"status"`
	Remark  string `json:"remark"`
}

// CustomerDraft is the request payload for creating or updating a lead.
type CustomerDraft struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Owner   string `json:"owner_fullname" validate:"omitempty,max=100"`
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,max=30"`
	Product string `json:"product" validate:"required,max=100"`
	Status  string `json:"status" validate:"required,max=50"`
	Remark  string `json:"remark" validate:"max=500"`
}
