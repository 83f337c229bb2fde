// Package record provides the storage contract shared by the owned
// record collections: stable identifiers, ownership stamping at creation
// time, and an ordered in-memory store whose mutations are gated by a
// caller-supplied authorization check.
package record

import (
	"strings"

	"github.com/google/uuid"

	"github.com/salescope/salescope/internal/authz"
)

// Owned carries the fields common to every owned record: a stable id,
// the branch the record belongs to, and the full name of the staff
// member accountable for it.
type Owned struct {
	ID            string `json:"id"`
	Branch        string `json:"branch"`
	OwnerFullName string `json:"owner_fullname"`

	// Attribution keys written by the legacy client. They are read
	// during snapshot import only; Normalize folds them into
	// OwnerFullName and clears them.
	LegacyStaffName string `json:"staff_name,omitempty"`
	LegacyStaff     string `json:"staff,omitempty"`
	LegacyCreatedBy string `json:"created_by,omitempty"`
}

// EntityID returns the record's stable identifier.
func (o Owned) EntityID() string { return o.ID }

// RecordBranch implements authz.Record.
func (o Owned) RecordBranch() string { return o.Branch }

// RecordOwner implements authz.Record.
func (o Owned) RecordOwner() string { return o.OwnerFullName }

// Stamp builds the ownership header for a record created by subject.
// ownerOverride lets an admin attribute the record to another named
// staff member; blank falls back to self-attribution. Ownership is set
// here once and is never editable afterwards.
func Stamp(subject *authz.Subject, ownerOverride string) Owned {
	owner := strings.TrimSpace(ownerOverride)
	if owner == "" {
		owner = subject.FullName
	}
	return Owned{
		ID:            uuid.NewString(),
		Branch:        subject.Branch,
		OwnerFullName: owner,
	}
}

// Normalize resolves the legacy attribution keys in priority order
// (staff_name, staff, created_by) and mints an id for rows imported from
// snapshots written before records carried one.
func (o *Owned) Normalize() {
	if o.OwnerFullName == "" {
		o.OwnerFullName = firstNonEmpty(o.LegacyStaffName, o.LegacyStaff, o.LegacyCreatedBy)
	}
	o.LegacyStaffName, o.LegacyStaff, o.LegacyCreatedBy = "", "", ""
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
