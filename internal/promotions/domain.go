// Package promotions manages campaign announcements. Their policy is
// asymmetric: every authenticated subject reads the full list across
// branches, but only admins may write.
package promotions

import (
	"time"

	"github.com/salescope/salescope/internal/record"
)

// Status is derived from the end date on every read; it is never stored
// as authoritative.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Promotion is one campaign entry. The owner attribution doubles as the
// legacy created_by field.
type Promotion struct {
	record.Owned
	Channel     string `json:"channel"`
	Campaign    string `json:"campaign"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Terms       string `json:"terms"`
	Status      Status `json:"status"`
	CreatedDate string `json:"created_date"`
}

// StatusAt derives the promotion status for the given day. Unparsable
// end dates count as expired, matching how the legacy client degraded.
func StatusAt(endDate string, now time.Time) Status {
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return StatusExpired
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if end.Before(today) {
		return StatusExpired
	}
	return StatusActive
}

// PromotionDraft is the request payload for creating or updating a
// promotion.
type PromotionDraft struct {
	Channel   string `json:"channel" validate:"required,max=100"`
	Campaign  string `json:"campaign" validate:"required,max=200"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Terms     string `json:"terms" validate:"max=2000"`
}
