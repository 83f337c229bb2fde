package deposits

import (
	"log/slog"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the deposits snapshot in the replication store.
const CollectionName = "deposits"

// Replicator receives the collection after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the deposit collection and applies the authorization gates.
type Service struct {
	logger *slog.Logger
	col    *record.Collection[Deposit]
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger}
	s.col = record.New[Deposit](func(snapshot []Deposit) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// Visible returns the deposits the subject may view, in insertion order.
func (s *Service) Visible(subject *authz.Subject) []Deposit {
	return s.col.Visible(subject)
}

// Create appends a deposit stamped with the subject's branch and owner
// attribution.
func (s *Service) Create(subject *authz.Subject, draft DepositDraft) (Deposit, error) {
	if subject == nil {
		return Deposit{}, shared.ErrNotAuthenticated
	}
	dep := Deposit{Owned: record.Stamp(subject, draft.Owner)}
	applyDraft(&dep, draft)
	return s.col.Append(dep), nil
}

// Update mutates a deposit in place; the stored record decides whether
// the edit is allowed and its owner and branch stamps are preserved.
func (s *Service) Update(subject *authz.Subject, id string, draft DepositDraft) (Deposit, error) {
	if subject == nil {
		return Deposit{}, shared.ErrNotAuthenticated
	}
	return s.col.Update(id,
		func(existing Deposit) error {
			if !authz.CanEdit(subject, existing) {
				return shared.ErrDenied
			}
			return nil
		},
		func(existing Deposit) Deposit {
			applyDraft(&existing, draft)
			return existing
		})
}

// Delete removes a deposit the subject is allowed to edit.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	return s.col.Delete(id, func(existing Deposit) error {
		if !authz.CanEdit(subject, existing) {
			return shared.ErrDenied
		}
		return nil
	})
}

// Hydrate restores the collection from a persisted snapshot.
func (s *Service) Hydrate(items []Deposit) {
	for i := range items {
		items[i].Normalize()
	}
	s.col.Replace(items)
}

// Snapshot exposes the full collection for replication and tests.
func (s *Service) Snapshot() []Deposit {
	return s.col.Snapshot()
}

func applyDraft(dep *Deposit, draft DepositDraft) {
	dep.Date = draft.Date
	dep.Cash = draft.Cash
	dep.Credit = draft.Credit
	dep.Note = draft.Note
}
