package auth

import (
	"log/slog"
	"net/http"

	"github.com/salescope/salescope/internal/platform/httpx"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/users"
)

// Middleware resolves the session user into an authorization subject on
// every request.
type Middleware struct {
	Users  *users.Service
	Logger *slog.Logger
}

// ResolveSubject attaches the subject for the session's username, when
// one exists and is still active, without rejecting anonymous requests.
func (m Middleware) ResolveSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, ok := m.Users.FindActive(sess.User())
		if !ok {
			// Account removed or deactivated mid-session.
			next.ServeHTTP(w, r)
			return
		}
		ctx := shared.ContextWithSubject(r.Context(), user.Subject())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSubject rejects requests that did not resolve to a subject.
func (m Middleware) RequireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.SubjectFromContext(r.Context()) == nil {
			httpx.RespondError(w, shared.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}
