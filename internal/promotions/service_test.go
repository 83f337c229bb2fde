package promotions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/shared"
)

type nopReplicator struct{}

func (nopReplicator) Offer(string, any) {}

var (
	admin = &authz.Subject{Username: "root", FullName: "Root", Branch: "HQ", Role: authz.RoleAdmin}
	sup   = &authz.Subject{Username: "sup", FullName: "Sam", Branch: "North", Role: authz.RoleSupervisor}
	agent = &authz.Subject{Username: "alice", FullName: "Alice", Branch: "South", Role: authz.RoleAgent}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(nil, nopReplicator{})
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func draft(campaign, endDate string) PromotionDraft {
	return PromotionDraft{
		Channel:   "retail",
		Campaign:  campaign,
		StartDate: "2025-06-01",
		EndDate:   endDate,
		Terms:     "standard terms",
	}
}

func TestEveryAuthenticatedRoleReadsAllPromotions(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(admin, draft("Summer Fiber", "2025-07-01"))
	require.NoError(t, err)

	for _, subject := range []*authz.Subject{admin, sup, agent} {
		list, err := svc.List(subject, "")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}

	_, err = svc.List(nil, "")
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestPromotionWritesAreAdminOnly(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(admin, draft("Summer Fiber", "2025-07-01"))
	require.NoError(t, err)

	for _, subject := range []*authz.Subject{sup, agent} {
		_, err := svc.Create(subject, draft("Rogue", "2025-07-01"))
		assert.ErrorIs(t, err, shared.ErrAdminOnly)
		_, err = svc.Update(subject, created.ID, draft("Hijacked", "2025-07-01"))
		assert.ErrorIs(t, err, shared.ErrAdminOnly)
		assert.ErrorIs(t, svc.Delete(subject, created.ID), shared.ErrAdminOnly)
	}

	_, err = svc.Create(nil, draft("Anon", "2025-07-01"))
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

	// Denied writes leave the collection unchanged.
	list, err := svc.List(admin, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Summer Fiber", list[0].Campaign)
}

func TestStatusDerivedFromEndDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, StatusActive, StatusAt("2025-06-15", now))
	assert.Equal(t, StatusActive, StatusAt("2025-07-01", now))
	assert.Equal(t, StatusExpired, StatusAt("2025-06-14", now))
	assert.Equal(t, StatusExpired, StatusAt("not-a-date", now))
	assert.Equal(t, StatusExpired, StatusAt("", now))
}

func TestListRecomputesStatus(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(admin, draft("Summer Fiber", "2025-07-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, created.Status)

	// Move the clock past the end date; the stored status is stale.
	svc.now = func() time.Time {
		return time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	}
	list, err := svc.List(agent, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusExpired, list[0].Status)
}

func TestListSearchMatchesCampaignChannelAndTerms(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(admin, PromotionDraft{Channel: "Retail", Campaign: "Summer Fiber", StartDate: "2025-06-01", EndDate: "2025-07-01", Terms: "new lines only"})
	require.NoError(t, err)
	_, err = svc.Create(admin, PromotionDraft{Channel: "Online", Campaign: "Winter SIM", StartDate: "2025-06-01", EndDate: "2025-07-01", Terms: "renewals welcome"})
	require.NoError(t, err)

	tests := []struct {
		search string
		want   int
	}{
		{"FIBER", 1},
		{"online", 1},
		{"renewals", 1},
		{"2025", 0},
		{"", 2},
	}
	for _, tt := range tests {
		list, err := svc.List(agent, tt.search)
		require.NoError(t, err)
		assert.Len(t, list, tt.want, "search %q", tt.search)
	}
}

func TestUpdatePreservesIdentityAndAttribution(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(admin, draft("Summer Fiber", "2025-07-01"))
	require.NoError(t, err)

	updated, err := svc.Update(admin, created.ID, draft("Autumn Fiber", "2025-10-01"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.OwnerFullName, updated.OwnerFullName)
	assert.Equal(t, created.CreatedDate, updated.CreatedDate)
	assert.Equal(t, "Autumn Fiber", updated.Campaign)
}

func TestEditable(t *testing.T) {
	svc := newTestService(t)
	assert.True(t, svc.Editable(admin))
	assert.False(t, svc.Editable(sup))
	assert.False(t, svc.Editable(agent))
	assert.False(t, svc.Editable(nil))
}
