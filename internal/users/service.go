package users

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/record"
	"github.com/salescope/salescope/internal/shared"
)

// CollectionName identifies the users snapshot in the replication store.
const CollectionName = "users"

// Replicator receives the account directory after every mutation.
type Replicator interface {
	Offer(collection string, snapshot any)
}

// Service owns the account directory. Every management operation
// requires the admin role; branch and ownership play no part here.
type Service struct {
	logger *slog.Logger
	rep    Replicator
	col    *record.Collection[User]
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, rep Replicator) *Service {
	s := &Service{logger: logger, rep: rep}
	s.col = record.New[User](func(snapshot []User) {
		rep.Offer(CollectionName, snapshot)
	})
	return s
}

// List returns every account, password hashes stripped. Admin only.
func (s *Service) List(subject *authz.Subject) ([]PublicUser, error) {
	if err := requireAdmin(subject); err != nil {
		return nil, err
	}
	items := s.col.Snapshot()
	out := make([]PublicUser, len(items))
	for i, u := range items {
		out[i] = u.Public()
	}
	return out, nil
}

// Create registers a new account. Usernames are unique, compared
// case-sensitively like the legacy directory did.
func (s *Service) Create(subject *authz.Subject, req CreateUserRequest) (PublicUser, error) {
	if err := requireAdmin(subject); err != nil {
		return PublicUser{}, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return PublicUser{}, shared.ErrValidation
	}
	if _, exists := s.findByUsername(username); exists {
		return PublicUser{}, shared.ErrDuplicateUsername
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return PublicUser{}, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: EnsureHashed(req.Password),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Branch:       strings.TrimSpace(req.Branch),
		Status:       status,
		CreatedDate:  time.Now().Format("2006-01-02"),
	}
	return s.col.Append(user).Public(), nil
}

// Update edits an account in place. The root admin account is immutable
// for every subject, other admins included; a blank password keeps the
// stored hash.
func (s *Service) Update(subject *authz.Subject, id string, req UpdateUserRequest) (PublicUser, error) {
	if err := requireAdmin(subject); err != nil {
		return PublicUser{}, err
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return PublicUser{}, err
	}
	updated, err := s.col.Update(id,
		func(existing User) error {
			if existing.IsRoot() {
				return shared.ErrProtectedAccount
			}
			return nil
		},
		func(existing User) User {
			existing.FullName = strings.TrimSpace(req.FullName)
			existing.Role = role
			existing.Branch = strings.TrimSpace(req.Branch)
			existing.Status = req.Status
			if req.Password != "" {
				existing.PasswordHash = EnsureHashed(req.Password)
			}
			return existing
		})
	if err != nil {
		return PublicUser{}, err
	}
	return updated.Public(), nil
}

// Delete removes an account. The root admin account survives every
// attempt.
func (s *Service) Delete(subject *authz.Subject, id string) error {
	if err := requireAdmin(subject); err != nil {
		return err
	}
	return s.col.Delete(id, func(existing User) error {
		if existing.IsRoot() {
			return shared.ErrProtectedAccount
		}
		return nil
	})
}

// FindActive looks up an account eligible for login.
func (s *Service) FindActive(username string) (User, bool) {
	u, ok := s.findByUsername(username)
	if !ok || !u.Active() {
		return User{}, false
	}
	return u, true
}

// ReplaceAll overwrites the directory with a freshly fetched copy and
// offers the result for replication. Used by the directory refresh.
func (s *Service) ReplaceAll(users []User) {
	for i := range users {
		users[i].Normalize()
		if users[i].ID == "" {
			users[i].ID = uuid.NewString()
		}
	}
	s.col.Replace(users)
	s.rep.Offer(CollectionName, s.col.Snapshot())
}

// Hydrate restores the directory from a persisted snapshot.
func (s *Service) Hydrate(users []User) {
	for i := range users {
		users[i].Normalize()
		if users[i].ID == "" {
			users[i].ID = uuid.NewString()
		}
	}
	s.col.Replace(users)
}

// Snapshot exposes the raw directory for replication and tests.
func (s *Service) Snapshot() []User {
	return s.col.Snapshot()
}

// Len reports the number of accounts in the directory.
func (s *Service) Len() int {
	return s.col.Len()
}

func (s *Service) findByUsername(username string) (User, bool) {
	for _, u := range s.col.Snapshot() {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

func requireAdmin(subject *authz.Subject) error {
	if subject == nil {
		return shared.ErrNotAuthenticated
	}
	if subject.Role != authz.RoleAdmin {
		return shared.ErrAdminOnly
	}
	return nil
}
