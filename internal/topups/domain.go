// Package topups tracks SIM and product top-ups with an expiry date used
// to drive the renewal alerts.
package topups

import (
	"time"

	"github.com/salescope/salescope/internal/record"
)

// TopUp is one top-up entry.
type TopUp struct {
	record.Owned
	Date     string `json:"date"`
	Customer string `json:"customer"`
	Phone    string `json:"phone"`
	Contact  string `json:"contact"`
	Product  string `json:"product"`
	Expiry   string `json:"expiry"`
	Remark   string `json:"remark"`
}

// ExpiryDate parses the stored expiry. ok is false when the field does
// not hold a valid date; such entries never raise alerts.
func (t TopUp) ExpiryDate() (time.Time, bool) {
	d, err := time.Parse("2006-01-02", t.Expiry)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// TopUpDraft is the request payload for creating or updating a top-up.
type TopUpDraft struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Owner    string `json:"owner_fullname" validate:"omitempty,max=100"`
	Customer string `json:"customer" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=30"`
	Contact  string `json:"contact" validate:"max=100"`
	Product  string `json:"product" validate:"required,max=100"`
	Expiry   string `json:"expiry" validate:"required,datetime=2006-01-02"`
	Remark   string `json:"remark" validate:"max=500"`
}
