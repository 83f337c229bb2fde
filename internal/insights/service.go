package insights

import (
	"time"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/sales"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/topups"
)

// SalesSource supplies role-filtered sales.
type SalesSource interface {
	Visible(subject *authz.Subject) []sales.Sale
}

// TopUpSource supplies role-filtered top-ups.
type TopUpSource interface {
	Visible(subject *authz.Subject) []topups.TopUp
}

// Service assembles the analytical views from role-filtered sources.
type Service struct {
	sales  SalesSource
	topups TopUpSource
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(salesSrc SalesSource, topupSrc TopUpSource) *Service {
	return &Service{sales: salesSrc, topups: topupSrc, now: time.Now}
}

// Dashboard builds the headline stats for the given period.
func (s *Service) Dashboard(subject *authz.Subject, period Period) (DashboardStats, error) {
	if subject == nil {
		return DashboardStats{}, shared.ErrNotAuthenticated
	}
	visible := s.sales.Visible(subject)
	return BuildDashboard(FilterByPeriod(visible, period, s.now())), nil
}

// Leaderboard builds the ranked revenue view for the given period.
func (s *Service) Leaderboard(subject *authz.Subject, period Period) ([]LeaderboardRow, error) {
	if subject == nil {
		return nil, shared.ErrNotAuthenticated
	}
	visible := FilterByPeriod(s.sales.Visible(subject), period, s.now())
	return BuildLeaderboard(visible, subject), nil
}

// Report is the full report payload.
type Report struct {
	Rows   []sales.Sale  `json:"rows"`
	Totals TotalsRow     `json:"totals"`
	Stats  ReportStats   `json:"stats"`
	Growth []GrowthPoint `json:"growth"`
}

// BuildReport filters role-visible sales and derives table, totals,
// stats and the growth series in one pass over the same subset.
func (s *Service) BuildReport(subject *authz.Subject, filter ReportFilter) (Report, error) {
	if subject == nil {
		return Report{}, shared.ErrNotAuthenticated
	}
	filtered := ApplyReportFilter(s.sales.Visible(subject), filter, subject)
	return Report{
		Rows:   filtered,
		Totals: BuildTotals(filtered),
		Stats:  BuildReportStats(filtered),
		Growth: BuildGrowth(filtered, filter.Grouping),
	}, nil
}

// Expiry builds the renewal alert report.
func (s *Service) Expiry(subject *authz.Subject) (ExpiryReport, error) {
	if subject == nil {
		return ExpiryReport{}, shared.ErrNotAuthenticated
	}
	return BuildExpiry(s.topups.Visible(subject), s.now()), nil
}
