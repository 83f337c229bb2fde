// Package auth handles login, logout and per-request subject resolution.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/directory"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/users"
)

// Service wraps authentication business rules.
type Service struct {
	users     *users.Service
	directory *directory.Service
}

// NewService constructs a new Service.
func NewService(userSvc *users.Service, dir *directory.Service) *Service {
	return &Service{users: userSvc, directory: dir}
}

// Login refreshes the account directory (best effort, bounded by the
// directory timeout) and then validates the credentials against it.
// Inactive accounts and unknown usernames fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (*authz.Subject, error) {
	s.directory.Refresh(ctx)

	user, ok := s.users.FindActive(username)
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user.Subject(), nil
}
