package topups

import (
	"log/slog"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the topups snapshot in the replication store.
const CollectionName = "topups"

// Replicator receives the collection after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the top-up collection and applies the authorization gates.
type Service struct {
	logger *slog.Logger
	col    *record.Collection[TopUp]
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger}
	s.col = record.New[TopUp](func(snapshot []TopUp) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// Visible returns the top-ups the subject may view, in insertion order.
func (s *Service) Visible(subject *authz.Subject) []TopUp {
	return s.col.Visible(subject)
}

// Create appends a top-up stamped with the subject's branch and owner
// attribution.
func (s *Service) Create(subject *authz.Subject, draft TopUpDraft) (TopUp, error) {
	if subject == nil {
		return TopUp{}, shared.ErrNotAuthenticated
	}
	t := TopUp{Owned: record.Stamp(subject, draft.Owner)}
	applyDraft(&t, draft)
	return s.col.Append(t), nil
}

// Update mutates a top-up in place; the stored record decides whether
// the edit is allowed and its owner and branch stamps are preserved.
func (s *Service) Update(subject *authz.Subject, id string, draft TopUpDraft) (TopUp, error) {
	if subject == nil {
		return TopUp{}, shared.ErrNotAuthenticated
	}
	return s.col.Update(id,
		func(existing TopUp) error {
			if !authz.CanEdit(subject, existing) {
				return shared.ErrDenied
			}
			return nil
		},
		func(existing TopUp) TopUp {
			applyDraft(&existing, draft)
			return existing
		})
}

// Delete removes a top-up the subject is allowed to edit.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	return s.col.Delete(id, func(existing TopUp) error {
		if !authz.CanEdit(subject, existing) {
			return shared.ErrDenied
		}
		return nil
	})
}

// Hydrate restores the collection from a persisted snapshot.
func (s *Service) Hydrate(items []TopUp) {
	for i := range items {
		items[i].Normalize()
	}
	s.col.Replace(items)
}

// Snapshot exposes the full collection for replication and tests.
func (s *Service) Snapshot() []TopUp {
	return s.col.Snapshot()
}

func applyDraft(t *TopUp, draft TopUpDraft) {
	t.Date = draft.Date
	t.Customer = draft.Customer
	t.Phone = draft.Phone
	t.Contact = draft.Contact
	t.Product = draft.Product
	t.Expiry = draft.Expiry
	t.Remark = draft.Remark
}
