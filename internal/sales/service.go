package sales

import (
	"log/slog"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the sales snapshot in the replication store.
const CollectionName = "sales"

// Replicator receives the collection after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the sales collection and applies the authorization gates.
type Service struct {
	logger *slog.Logger
	col    *record.Collection[Sale]
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger}
	s.col = record.New[Sale](func(snapshot []Sale) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// Visible returns the sales the subject may view, in insertion order.
func (s *Service) Visible(subject *authz.Subject) []Sale {
	return s.col.Visible(subject)
}

// Create appends a sale stamped with the subject's branch and, unless an
// attribution override is given, the subject's own full name.
func (s *Service) Create(subject *authz.Subject, draft SaleDraft) (Sale, error) {
	if subject == nil {
		return Sale{}, shared.ErrNotAuthenticated
	}
	sale := Sale{Owned: record.Stamp(subject, draft.Owner)}
	applyDraft(&sale, draft)
	return s.col.Append(sale), nil
}

// Update mutates a sale in place. Authorization is evaluated against the
// stored record before the draft is applied, and the original owner and
// branch stamps survive the edit.
func (s *Service) Update(subject *authz.Subject, id string, draft SaleDraft) (Sale, error) {
	if subject == nil {
		return Sale{}, shared.ErrNotAuthenticated
	}
	return s.col.Update(id,
		func(existing Sale) error {
			if !authz.CanEdit(subject, existing) {
				return shared.ErrDenied
			}
			return nil
		},
		func(existing Sale) Sale {
			applyDraft(&existing, draft)
			return existing
		})
}

// Delete removes a sale the subject is allowed to edit.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	return s.col.Delete(id, func(existing Sale) error {
		if !authz.CanEdit(subject, existing) {
			return shared.ErrDenied
		}
		return nil
	})
}

// Hydrate restores the collection from a persisted snapshot, resolving
// legacy attribution keys.
func (s *Service) Hydrate(items []Sale) {
	for i := range items {
		items[i].Normalize()
	}
	s.col.Replace(items)
}

// Snapshot exposes the full collection for replication and tests.
func (s *Service) Snapshot() []Sale {
	return s.col.Snapshot()
}

func applyDraft(sale *Sale, draft SaleDraft) {
	sale.Date = draft.Date
	sale.GrossAds = draft.GrossAds
	sale.ChangeSIM = draft.ChangeSIM
	sale.SAtHome = draft.SAtHome
	sale.FiberPlus = draft.FiberPlus
	sale.Recharge = draft.Recharge
	sale.SCShop = draft.SCShop
	sale.SCDealer = draft.SCDealer
	sale.TotalRevenue = draft.TotalRevenue
}
