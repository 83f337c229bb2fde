package insights

import (
	"sort"
	"time"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/sales"
	"github.com/salescope/salescope/internal/shared"
)

// ReportFilter narrows the report input. Branch is honored for admin
// callers only; other roles already see a single branch at most and
// must not be able to probe for foreign data through filters.
type ReportFilter struct {
	From     string
	To       string
	Owner    string
	Branch   string
	Grouping Grouping
}

// Grouping selects the growth series bucket size.
type Grouping string

const (
	GroupWeekly  Grouping = "weekly"
	GroupMonthly Grouping = "monthly"
)

// ParseGrouping maps a query value to a Grouping, defaulting to weekly.
func ParseGrouping(s string) Grouping {
	if Grouping(s) == GroupMonthly {
		return GroupMonthly
	}
	return GroupWeekly
}

// ApplyReportFilter applies the filter to sales that are already role
// filtered. Date bounds are inclusive; entries with unparsable dates
// are dropped when either bound is set.
func ApplyReportFilter(items []sales.Sale, filter ReportFilter, subject *authz.Subject) []sales.Sale {
	var from, to time.Time
	var hasFrom, hasTo bool
	if filter.From != "" {
		if d, err := time.Parse(dateLayout, filter.From); err == nil {
			from, hasFrom = d, true
		}
	}
	if filter.To != "" {
		if d, err := time.Parse(dateLayout, filter.To); err == nil {
			to, hasTo = d, true
		}
	}

	branchFilter := filter.Branch != "" && subject != nil && subject.Role == authz.RoleAdmin

	out := make([]sales.Sale, 0, len(items))
	for _, s := range items {
		if hasFrom || hasTo {
			d, err := time.Parse(dateLayout, s.Date)
			if err != nil {
				continue
			}
			if hasFrom && d.Before(from) {
				continue
			}
			if hasTo && d.After(to) {
				continue
			}
		}
		if filter.Owner != "" && !shared.ContainsFold(s.OwnerFullName, filter.Owner) {
			continue
		}
		if branchFilter && s.Branch != filter.Branch {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ReportStats summarizes a filtered report.
type ReportStats struct {
	TotalItems      int     `json:"total_items"`
	TotalRevenue    float64 `json:"total_revenue"`
	RecordCount     int     `json:"record_count"`
	AvgDailyRevenue float64 `json:"avg_daily_revenue"`
}

// BuildReportStats computes totals over filtered sales. Average revenue
// divides by the number of distinct dates, not by record count.
func BuildReportStats(items []sales.Sale) ReportStats {
	var stats ReportStats
	dates := make(map[string]struct{})
	for _, s := range items {
		stats.TotalItems += s.ItemCount()
		stats.TotalRevenue += s.TotalRevenue
		dates[s.Date] = struct{}{}
	}
	stats.RecordCount = len(items)
	if len(dates) > 0 {
		stats.AvgDailyRevenue = stats.TotalRevenue / float64(len(dates))
	}
	return stats
}

// GrowthPoint is one bucket of the growth series.
type GrowthPoint struct {
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Items    int     `json:"items"`
	Recharge float64 `json:"recharge"`
}

// BuildGrowth buckets filtered sales by calendar week (starting Sunday)
// or calendar month and returns the buckets in chronological order.
// Entries with unparsable dates are skipped.
func BuildGrowth(items []sales.Sale, grouping Grouping) []GrowthPoint {
	type bucket struct {
		start time.Time
		point GrowthPoint
	}
	index := make(map[string]int)
	buckets := make([]bucket, 0)

	for _, s := range items {
		d, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			continue
		}
		var start time.Time
		if grouping == GroupMonthly {
			start = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		} else {
			start = d.AddDate(0, 0, -int(d.Weekday()))
		}
		label := start.Format(dateLayout)
		if grouping == GroupMonthly {
			label = start.Format("2006-01")
		}

		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, bucket{start: start, point: GrowthPoint{Label: label}})
		}
		buckets[i].point.Revenue += s.TotalRevenue
		buckets[i].point.Items += s.ItemCount()
		buckets[i].point.Recharge += s.Recharge
	}

	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].start.Before(buckets[b].start)
	})

	series := make([]GrowthPoint, len(buckets))
	for i, b := range buckets {
		series[i] = b.point
	}
	return series
}

// TotalsRow is the summary line appended under the report table.
type TotalsRow struct {
	GrossAds     int     `json:"gross_ads"`
	ChangeSIM    int     `json:"change_sim"`
	SAtHome      int     `json:"s_at_home"`
	FiberPlus    int     `json:"fiber_plus"`
	Recharge     float64 `json:"recharge"`
	SCShop       float64 `json:"sc_shop"`
	SCDealer     float64 `json:"sc_dealer"`
	TotalRevenue float64 `json:"total_revenue"`
}

// BuildTotals sums per-column totals for the report table.
func BuildTotals(items []sales.Sale) TotalsRow {
	var t TotalsRow
	for _, s := range items {
		t.GrossAds += s.GrossAds
		t.ChangeSIM += s.ChangeSIM
		t.SAtHome += s.SAtHome
		t.FiberPlus += s.FiberPlus
		t.Recharge += s.Recharge
		t.SCShop += s.SCShop
		t.SCDealer += s.SCDealer
		t.TotalRevenue += s.TotalRevenue
	}
	return t
}
