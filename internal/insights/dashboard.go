package insights

import "github.com/salescope/salescope/internal/sales"

// DashboardStats are the headline figures for the landing view.
type DashboardStats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalRecharge float64 `json:"total_recharge"`
	TotalGrossAds int     `json:"total_gross_ads"`
	Transactions  int     `json:"transactions"`
}

// BuildDashboard aggregates the provided sales. Callers pass data that
// is already role filtered and period filtered.
func BuildDashboard(items []sales.Sale) DashboardStats {
	var stats DashboardStats
	for _, s := range items {
		stats.TotalRevenue += s.TotalRevenue
		stats.TotalRecharge += s.Recharge
		stats.TotalGrossAds += s.GrossAds
	}
	stats.Transactions = len(items)
	return stats
}
