// Package insights builds the read-only analytical views: dashboard
// stats, leaderboard, reports with growth series, and expiry alerts.
// Every builder consumes role-filtered data only; no record invisible
// to the caller ever contributes to an aggregate.
package insights

import (
	"time"

	"github.com/salescope/salescope/internal/sales"
)

// Period selects the dashboard time window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps a query value to a Period, defaulting to all.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s)
	default:
		return PeriodAll
	}
}

const dateLayout = "2006-01-02"

// FilterByPeriod keeps sales whose date falls inside the period ending
// at now. Entries with unparsable dates are kept only for PeriodAll.
func FilterByPeriod(items []sales.Sale, period Period, now time.Time) []sales.Sale {
	if period == PeriodAll {
		return items
	}

	today := now.Truncate(24 * time.Hour)
	var from time.Time
	switch period {
	case PeriodToday:
		from = today
	case PeriodWeek:
		// Inclusive of the same weekday last week, so eight calendar days.
		from = today.AddDate(0, 0, -7)
	case PeriodMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}

	filtered := make([]sales.Sale, 0, len(items))
	for _, s := range items {
		d, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(today) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
