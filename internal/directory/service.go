package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/salescope/salescope/internal/users"
)

// DefaultTimeout bounds a directory refresh; the legacy client raced its
// fetch against the same deadline.
const DefaultTimeout = 15 * time.Second

// Service coordinates refreshes of the local account directory.
type Service struct {
	logger  *slog.Logger
	source  Source
	users   *users.Service
	timeout time.Duration
}

// NewService builds a Service. source may be nil when no remote endpoint
// is configured; Refresh then keeps the cached directory untouched.
func NewService(logger *slog.Logger, source Source, userSvc *users.Service, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{logger: logger, source: source, users: userSvc, timeout: timeout}
}

// Refresh pulls the remote directory, bounded by the configured timeout.
// Only a successful non-empty response overwrites the local directory;
// every failure mode falls back to the cached copy and is logged, never
// surfaced, so login cannot hang on an unreachable remote.
func (s *Service) Refresh(ctx context.Context) {
	if s.source == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fetched, err := s.source.FetchUsers(ctx)
	if err != nil {
		s.logger.Warn("directory refresh failed, keeping cached users", slog.Any("error", err))
		return
	}
	if len(fetched) == 0 {
		s.logger.Warn("directory refresh returned no users, keeping cached users")
		return
	}
	s.users.ReplaceAll(fetched)
	s.logger.Info("directory refreshed", slog.Int("users", len(fetched)))
}
