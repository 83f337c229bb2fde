// Package sales records daily product sales per staff member and branch.
package sales

import "github.com/salescope/salescope/internal/record"

// Sale is one day's sales entry for a staff member.
type Sale struct {
	record.Owned
	Date         string  `json:"date"`
	GrossAds     int     `json:"gross_ads"`
	ChangeSIM    int     `json:"change_sim"`
	SAtHome      int     `json:"s_at_home"`
	FiberPlus    int     `json:"fiber_plus"`
	Recharge     float64 `json:"recharge"`
	SCShop       float64 `json:"sc_shop"`
	SCDealer     float64 `json:"sc_dealer"`
	TotalRevenue float64 `json:"total_revenue"`
}

// HomeInternetUnits counts the home internet products on the entry.
func (s Sale) HomeInternetUnits() int {
	return s.SAtHome + s.FiberPlus
}

// ItemCount totals the unit-counted products on the entry.
func (s Sale) ItemCount() int {
	return s.GrossAds + s.ChangeSIM + s.SAtHome + s.FiberPlus
}

// SaleDraft is the request payload for creating or updating a sale.
// Owner is an optional attribution override honored at creation time
// only; updates always preserve the original owner and branch.
type SaleDraft struct {
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Owner        string  `json:"owner_fullname" validate:"omitempty,max=100"`
	GrossAds     int     `json:"gross_ads" validate:"gte=0"`
	ChangeSIM    int     `json:"change_sim" validate:"gte=0"`
	SAtHome      int     `json:"s_at_home" validate:"gte=0"`
	FiberPlus    int     `json:"fiber_plus" validate:"gte=0"`
	Recharge     float64 `json:"recharge" validate:"gte=0"`
	SCShop       float64 `json:"sc_shop" validate:"gte=0"`
	SCDealer     float64 `json:"sc_dealer" validate:"gte=0"`
	TotalRevenue float64 `json:"total_revenue" validate:"gte=0"`
}
