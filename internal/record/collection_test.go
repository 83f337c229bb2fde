package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/shared"
)

type note struct {
	Owned
	Text string `json:"text"`
}

func TestAppendNotifiesWithSnapshot(t *testing.T) {
	var snapshots [][]note
	col := New[note](func(snapshot []note) {
		snapshots = append(snapshots, snapshot)
	})

	a := note{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}, Text: "first"}
	b := note{Owned: Owned{ID: "b", Branch: "North", OwnerFullName: "Bob"}, Text: "second"}
	col.Append(a)
	col.Append(b)

	require.Len(t, snapshots, 2)
	assert.Equal(t, []note{a}, snapshots[0])
	assert.Equal(t, []note{a, b}, snapshots[1])
	assert.Equal(t, 2, col.Len())
}

func TestUpdateAuthorizesAgainstStoredRecord(t *testing.T) {
	col := New[note](nil)
	col.Append(note{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}, Text: "original"})

	var seen note
	denied := errors.New("denied")
	_, err := col.Update("a",
		func(existing note) error {
			seen = existing
			return denied
		},
		func(existing note) note {
			existing.Text = "changed"
			return existing
		})
	require.ErrorIs(t, err, denied)
	assert.Equal(t, "original", seen.Text)

	// A denied update must leave the record untouched.
	stored, ok := col.Get("a")
	require.True(t, ok)
	assert.Equal(t, "original", stored.Text)
}

func TestUpdateAppliesAndReturnsRecord(t *testing.T) {
	col := New[note](nil)
	col.Append(note{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}, Text: "original"})

	updated, err := col.Update("a", nil, func(existing note) note {
		existing.Text = "changed"
		return existing
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Text)
	assert.Equal(t, "Alice", updated.OwnerFullName)

	stored, ok := col.Get("a")
	require.True(t, ok)
	assert.Equal(t, "changed", stored.Text)
}

func TestUpdateAndDeleteMissingID(t *testing.T) {
	col := New[note](nil)

	_, err := col.Update("nope", nil, func(n note) note { return n })
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, col.Delete("nope", nil), shared.ErrNotFound)
}

func TestDeleteKeepsOrder(t *testing.T) {
	col := New[note](nil)
	for _, id := range []string{"a", "b", "c"} {
		col.Append(note{Owned: Owned{ID: id, Branch: "North", OwnerFullName: "Alice"}})
	}

	require.NoError(t, col.Delete("b", nil))

	items := col.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}

func TestDeniedDeleteKeepsRecord(t *testing.T) {
	col := New[note](nil)
	col.Append(note{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}})

	err := col.Delete("a", func(note) error { return shared.ErrDenied })
	assert.ErrorIs(t, err, shared.ErrDenied)
	assert.Equal(t, 1, col.Len())
}

func TestReplaceDoesNotNotify(t *testing.T) {
	notified := 0
	col := New[note](func([]note) { notified++ })

	col.Replace([]note{{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}}})
	assert.Zero(t, notified)
	assert.Equal(t, 1, col.Len())
}

func TestVisibleFiltersByRole(t *testing.T) {
	col := New[note](nil)
	col.Append(note{Owned: Owned{ID: "a", Branch: "North", OwnerFullName: "Alice"}})
	col.Append(note{Owned: Owned{ID: "b", Branch: "South", OwnerFullName: "Bob"}})

	agent := &authz.Subject{Username: "alice", FullName: "Alice", Branch: "North", Role: authz.RoleAgent}
	visible := col.Visible(agent)
	require.Len(t, visible, 1)
	assert.Equal(t, "a", visible[0].ID)
}

func TestStamp(t *testing.T) {
	subject := &authz.Subject{Username: "alice", FullName: "Alice", Branch: "North", Role: authz.RoleAgent}

	owned := Stamp(subject, "")
	assert.NotEmpty(t, owned.ID)
	assert.Equal(t, "North", owned.Branch)
	assert.Equal(t, "Alice", owned.OwnerFullName)

	overridden := Stamp(subject, "  Bob  ")
	assert.Equal(t, "Bob", overridden.OwnerFullName)
	assert.NotEqual(t, owned.ID, overridden.ID)
}

func TestNormalizeResolvesLegacyAttribution(t *testing.T) {
	tests := []struct {
		name string
		in   Owned
		want string
	}{
		{"staff_name wins", Owned{LegacyStaffName: "Alice", LegacyStaff: "Bob", LegacyCreatedBy: "Carol"}, "Alice"},
		{"staff fallback", Owned{LegacyStaff: "Bob", LegacyCreatedBy: "Carol"}, "Bob"},
		{"created_by fallback", Owned{LegacyCreatedBy: "Carol"}, "Carol"},
		{"canonical untouched", Owned{OwnerFullName: "Dana", LegacyStaffName: "Alice"}, "Dana"},
		{"whitespace skipped", Owned{LegacyStaffName: "  ", LegacyStaff: "Bob"}, "Bob"},
		{"nothing to resolve", Owned{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.want, tt.in.OwnerFullName)
			assert.Empty(t, tt.in.LegacyStaffName)
			assert.Empty(t, tt.in.LegacyStaff)
			assert.Empty(t, tt.in.LegacyCreatedBy)
			assert.NotEmpty(t, tt.in.ID)
		})
	}
}

func TestNormalizeDecodedLegacySnapshot(t *testing.T) {
	raw := `{"branch":"North","staff_name":"Alice","text":"old row"}`
	var n note
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	n.Normalize()
	assert.Equal(t, "Alice", n.OwnerFullName)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "old row", n.Text)
}
