package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	branch string
	owner  string
}

func (r testRecord) RecordBranch() string { return r.branch }
func (r testRecord) RecordOwner() string  { return r.owner }

func TestCanViewByRole(t *testing.T) {
	rec := testRecord{branch: "North", owner: "Alice"}

	tests := []struct {
		name    string
		subject *Subject
		want    bool
	}{
		{"nil subject", nil, false},
		{"admin any branch", &Subject{Username: "root", FullName: "Root", Branch: "South", Role: RoleAdmin}, true},
		{"supervisor same branch", &Subject{Username: "sup", FullName: "Sam", Branch: "North", Role: RoleSupervisor}, true},
		{"supervisor other branch", &Subject{Username: "sup", FullName: "Sam", Branch: "South", Role: RoleSupervisor}, false},
		{"agent own record", &Subject{Username: "alice", FullName: "Alice", Branch: "North", Role: RoleAgent}, true},
		{"agent same branch other owner", &Subject{Username: "bob", FullName: "Bob", Branch: "North", Role: RoleAgent}, false},
		{"agent other branch same name", &Subject{Username: "alice2", FullName: "Alice", Branch: "South", Role: RoleAgent}, false},
		{"unknown role", &Subject{Username: "x", FullName: "X", Branch: "North", Role: Role(0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.subject, rec))
		})
	}
}

func TestAgentCannotSeeUnattributedRecords(t *testing.T) {
	agent := &Subject{Username: "alice", FullName: "Alice", Branch: "North", Role: RoleAgent}
	assert.False(t, CanView(agent, testRecord{branch: "North", owner: ""}))

	sup := &Subject{Username: "sup", FullName: "Sam", Branch: "North", Role: RoleSupervisor}
	assert.True(t, CanView(sup, testRecord{branch: "North", owner: ""}))
}

func TestCanEditMatchesCanView(t *testing.T) {
	subjects := []*Subject{
		nil,
		{Username: "root", FullName: "Root", Branch: "HQ", Role: RoleAdmin},
		{Username: "sup", FullName: "Sam", Branch: "North", Role: RoleSupervisor},
		{Username: "alice", FullName: "Alice", Branch: "North", Role: RoleAgent},
	}
	records := []testRecord{
		{branch: "North", owner: "Alice"},
		{branch: "North", owner: "Bob"},
		{branch: "South", owner: "Alice"},
		{branch: "North", owner: ""},
	}
	for _, s := range subjects {
		for _, rec := range records {
			assert.Equal(t, CanView(s, rec), CanEdit(s, rec))
		}
	}
}

func TestPromotionPolicy(t *testing.T) {
	admin := &Subject{Username: "root", Role: RoleAdmin}
	sup := &Subject{Username: "sup", Role: RoleSupervisor}
	agent := &Subject{Username: "a", Role: RoleAgent}

	assert.True(t, CanEditPromotion(admin))
	assert.False(t, CanEditPromotion(sup))
	assert.False(t, CanEditPromotion(agent))
	assert.False(t, CanEditPromotion(nil))

	assert.True(t, CanViewPromotions(admin))
	assert.True(t, CanViewPromotions(sup))
	assert.True(t, CanViewPromotions(agent))
	assert.False(t, CanViewPromotions(nil))
}

func TestFilterVisiblePreservesOrder(t *testing.T) {
	records := []testRecord{
		{branch: "North", owner: "Alice"},
		{branch: "South", owner: "Bob"},
		{branch: "North", owner: "Bob"},
		{branch: "North", owner: "Alice"},
	}

	sup := &Subject{Username: "sup", FullName: "Sam", Branch: "North", Role: RoleSupervisor}
	got := FilterVisible(sup, records)
	require.Len(t, got, 3)
	assert.Equal(t, records[0], got[0])
	assert.Equal(t, records[2], got[1])
	assert.Equal(t, records[3], got[2])

	assert.Empty(t, FilterVisible(nil, records))
}

func TestFilterVisibleIsIdempotent(t *testing.T) {
	records := []testRecord{
		{branch: "North", owner: "Alice"},
		{branch: "South", owner: "Bob"},
		{branch: "North", owner: ""},
		{branch: "North", owner: "Bob"},
	}

	subjects := []*Subject{
		{Username: "root", FullName: "Root", Branch: "HQ", Role: RoleAdmin},
		{Username: "sup", FullName: "Sam", Branch: "North", Role: RoleSupervisor},
		{Username: "alice", FullName: "Alice", Branch: "North", Role: RoleAgent},
		nil,
	}
	for _, s := range subjects {
		once := FilterVisible(s, records)
		assert.Equal(t, once, FilterVisible(s, once))
	}
}
