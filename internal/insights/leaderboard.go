package insights

import (
	"sort"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/sales"
)

// LeaderboardRow is one ranked group on the leaderboard.
type LeaderboardRow struct {
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	Recharge     float64 `json:"recharge"`
	GrossAds     int     `json:"gross_ads"`
	HomeInternet int     `json:"home_internet"`
}

// BuildLeaderboard groups sales by branch for admins and by owner full
// name for everyone else, ranking groups by revenue. Groups with equal
// revenue keep first-appearance order.
func BuildLeaderboard(items []sales.Sale, subject *authz.Subject) []LeaderboardRow {
	byBranch := subject != nil && subject.Role == authz.RoleAdmin

	index := make(map[string]int)
	rows := make([]LeaderboardRow, 0)
	for _, s := range items {
		key := s.OwnerFullName
		if byBranch {
			key = s.Branch
		}
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, LeaderboardRow{Name: key})
		}
		rows[i].Revenue += s.TotalRevenue
		rows[i].Recharge += s.Recharge
		rows[i].GrossAds += s.GrossAds
		rows[i].HomeInternet += s.HomeInternetUnits()
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Revenue > rows[b].Revenue
	})
	return rows
}
