package promotions

import (
	"log/slog"
	"time"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the promotions snapshot in the replication store.
const CollectionName = "promotions"

// Replicator receives the collection after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the promotion collection. Reads require authentication
// only; writes require the admin role regardless of branch or
// authorship.
type Service struct {
	logger *slog.Logger
	col    *record.Collection[Promotion]
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger, now: time.Now}
	s.col = record.New[Promotion](func(snapshot []Promotion) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// List returns every promotion with its status recomputed, regardless of
// the subject's branch. search, when non-empty, narrows by a
// case-insensitive match over campaign, channel and terms.
func (s *Service) List(subject *authz.Subject, search string) ([]Promotion, error) {
	if !authz.CanViewPromotions(subject) {
		return nil, shared.ErrNotAuthenticated
	}
	items := s.col.Snapshot()
	now := s.now()
	out := make([]Promotion, 0, len(items))
	for _, p := range items {
		p.Status = StatusAt(p.EndDate, now)
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Editable reports whether the subject may mutate promotions at all; the
// presentation layer uses it to show or hide the write controls.
func (s *Service) Editable(subject *authz.Subject) bool {
	return authz.CanEditPromotion(subject)
}

// Create appends a promotion. Admin only.
func (s *Service) Create(subject *authz.Subject, draft PromotionDraft) (Promotion, error) {
	if err := s.requireEditor(subject); err != nil {
		return Promotion{}, err
	}
	now := s.now()
	p := Promotion{
		Owned:       record.Stamp(subject, ""),
		CreatedDate: now.Format("2006-01-02"),
	}
	applyDraft(&p, draft, now)
	return s.col.Append(p), nil
}

// Update replaces a promotion's payload. Admin only; the id, creator
// attribution and creation date are preserved.
func (s *Service) Update(subject *authz.Subject, id string, draft PromotionDraft) (Promotion, error) {
	if err := s.requireEditor(subject); err != nil {
		return Promotion{}, err
	}
	now := s.now()
	return s.col.Update(id, nil, func(existing Promotion) Promotion {
		applyDraft(&existing, draft, now)
		return existing
	})
}

// Delete removes a promotion. Admin only.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if err := s.requireEditor(subject); err != nil {
		return err
	}
	return s.col.Delete(id, nil)
}

// Hydrate restores the collection from a persisted snapshot.
func (s *Service) Hydrate(items []Promotion) {
	for i := range items {
		items[i].Normalize()
	}
	s.col.Replace(items)
}

// Snapshot exposes the full collection for replication and tests.
func (s *Service) Snapshot() []Promotion {
	return s.col.Snapshot()
}

func (s *Service) requireEditor(subject *authz.Subject) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	if !authz.CanEditPromotion(subject) {
		return shared.ErrAdminOnly
	}
	return nil
}

func applyDraft(p *Promotion, draft PromotionDraft, now time.Time) {
	p.Channel = draft.Channel
	p.Campaign = draft.Campaign
	p.StartDate = draft.StartDate
	p.EndDate = draft.EndDate
	p.Terms = draft.Terms
	p.Status = StatusAt(draft.EndDate, now)
}

func matches(p Promotion, search string) bool {
	return shared.ContainsFold(p.Campaign, search) ||
		shared.ContainsFold(p.Channel, search) ||
		shared.ContainsFold(p.Terms, search)
}
