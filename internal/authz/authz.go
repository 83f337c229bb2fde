// Package authz implements the role-based visibility and mutation rules
// applied to every record collection. The predicates are pure functions
// over (subject, record) pairs; they hold no state and never fail.
package authz

// Subject is the authenticated actor whose requests the engine evaluates.
type Subject struct {
	Username string
	FullName string
	Branch   string
	Role     Role
}

// Record is the structural contract shared by every owned record: the
// branch it belongs to and the full name of the staff member accountable
// for it.
type Record interface {
	RecordBranch() string
	RecordOwner() string
}

// CanView reports whether the subject may see the record. Admins see
// everything, supervisors their own branch, agents only their own records
// within their branch. A nil subject sees nothing. Records with a blank
// owner attribution are invisible to agents, which is the safe default
// for malformed imports.
func CanView(s *Subject, rec Record) bool {
	if s == nil {
		return false
	}
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleSupervisor:
		return rec.RecordBranch() == s.Branch
	case RoleAgent:
		owner := rec.RecordOwner()
		return rec.RecordBranch() == s.Branch && owner != "" && owner == s.FullName
	default:
		return false
	}
}

// CanEdit reports whether the subject may mutate the record. Edit
// permission is exactly coextensive with view permission for owned
// records; no read-only grant exists for them.
func CanEdit(s *Subject, rec Record) bool {
	return CanView(s, rec)
}

// CanEditPromotion reports whether the subject may create, update or
// delete promotions. Promotion writes are admin-only regardless of
// branch or authorship.
func CanEditPromotion(s *Subject) bool {
	return s != nil && s.Role == RoleAdmin
}

// CanViewPromotions reports whether the subject may read promotions.
// Promotion reads ignore branch and ownership but still require an
// authenticated subject.
func CanViewPromotions(s *Subject) bool {
	return s != nil
}

// FilterVisible returns the subsequence of records the subject may view,
// preserving the original relative order. Every table, chart and report
// consumes this before any user-supplied filter is applied, so an
// explicit filter can only ever narrow the authorized subset.
func FilterVisible[T Record](s *Subject, records []T) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if CanView(s, rec) {
			out = append(out, rec)
		}
	}
	return out
}
