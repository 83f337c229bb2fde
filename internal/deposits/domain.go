// Package deposits records daily cash deposits per staff member and branch.
package deposits

import "github.com/salescope/salescope/internal/record"

// Deposit is one cash deposit entry.
type Deposit struct {
	record.Owned
	Date   string  `json:"date"`
	Cash   float64 `json:"cash"`
	Credit float64 `json:"credit"`
	Note   string  `json:"note"`
}

// Total is the combined deposited amount.
func (d Deposit) Total() float64 {
	return d.Cash + d.Credit
}

// DepositDraft is the request payload for creating or updating a deposit.
type DepositDraft struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Owner  string  `json:"owner_fullname" validate:"omitempty,max=100"`
	Cash   float64 `json:"cash" validate:"gte=0"`
	Credit float64 `json:"credit" validate:"gte=0"`
	Note   string  `json:"note" validate:"max=500"`
}
