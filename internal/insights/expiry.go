package insights

import (
	"time"

	"github.com/salescope/salescope/internal/topups"
)

// ExpiryAlert is one top-up that needs attention.
type ExpiryAlert struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Phone    string `json:"phone"`
	Product  string `json:"product"`
	Expiry   string `json:"expiry"`
	DaysLeft int    `json:"days_left"`
}

// ExpiryReport classifies role-filtered top-ups into expired entries
// and entries expiring within the next seven days.
type ExpiryReport struct {
	Expired       []ExpiryAlert `json:"expired"`
	Expiring      []ExpiryAlert `json:"expiring"`
	ExpiredCount  int           `json:"expired_count"`
	ExpiringCount int           `json:"expiring_count"`
}

const expiryHorizonDays = 7

// BuildExpiry builds the alert report relative to now. Top-ups without
// a parsable expiry date never alert.
func BuildExpiry(items []topups.TopUp, now time.Time) ExpiryReport {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	report := ExpiryReport{
		Expired:  make([]ExpiryAlert, 0),
		Expiring: make([]ExpiryAlert, 0),
	}

	for _, t := range items {
		d, ok := t.ExpiryDate()
		if !ok {
			continue
		}
		daysLeft := int(d.Sub(today).Hours() / 24)
		alert := ExpiryAlert{
			ID:       t.ID,
			Customer: t.Customer,
			Phone:    t.Phone,
			Product:  t.Product,
			Expiry:   t.Expiry,
			DaysLeft: daysLeft,
		}
		switch {
		case d.Before(today):
			report.Expired = append(report.Expired, alert)
		case daysLeft <= expiryHorizonDays:
			report.Expiring = append(report.Expiring, alert)
		}
	}

	report.ExpiredCount = len(report.Expired)
	report.ExpiringCount = len(report.Expiring)
	return report
}
