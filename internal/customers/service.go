package customers

import (
	"log/slog"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the customers snapshot in the replication store.
const CollectionName = "customers"

// Replicator receives the collection after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the lead collection and applies the authorization gates.
type Service struct {
	logger *slog.Logger
	col    *record.Collection[Customer]
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger}
	s.col = record.New[Customer](func(snapshot []Customer) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// Visible returns the leads the subject may view, in insertion order.
func (s *Service) Visible(subject *authz.Subject) []Customer {
	return s.col.Visible(subject)
}

// Create appends a lead stamped with the subject's branch and owner
// attribution.
func (s *Service) Create(subject *authz.Subject, draft CustomerDraft) (Customer, error) {
	if subject == nil {
		return Customer{}, shared.ErrNotAuthenticated
	}
	c := Customer{Owned: record.Stamp(subject, draft.Owner)}
	applyDraft(&c, draft)
	return s.col.Append(c), nil
}

// Update mutates a lead in place; the stored record decides whether the
// edit is allowed and its owner and branch stamps are preserved.
func (s *Service) Update(subject *authz.Subject, id string, draft CustomerDraft) (Customer, error) {
	if subject == nil {
		return Customer{}, shared.ErrNotAuthenticated
	}
	return s.col.Update(id,
		func(existing Customer) error {
			if !authz.CanEdit(subject, existing) {
				return shared.ErrDenied
			}
			return nil
		},
		func(existing Customer) Customer {
			applyDraft(&existing, draft)
			return existing
		})
}

// Delete removes a lead the subject is allowed to edit.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	return s.col.Delete(id, func(existing Customer) error {
		if !authz.CanEdit(subject, existing) {
			return shared.ErrDenied
		}
		return nil
	})
}

// Hydrate restores the collection from a persisted snapshot.
func (s *Service) Hydrate(items []Customer) {
	for i := range items {
		items[i].Normalize()
	}
	s.col.Replace(items)
}

// Snapshot exposes the full collection for replication and tests.
func (s *Service) Snapshot() []Customer {
	return s.col.Snapshot()
}

func applyDraft(c *Customer, draft CustomerDraft) {
	c.Date = draft.Date
	c.Name = draft.Name
	c.Phone = draft.Phone
	c.Product = draft.Product
	c.Status = draft.Status
	c.Remark = draft.Remark
}
