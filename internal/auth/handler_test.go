package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/salescope/salescope/internal/auth"
	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/directory"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/users"
	_ "github.com/salescope/salescope/testing"
)

type nopReplicator struct{}

func (nopReplicator) Offer(string, any) {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthFixture(t *testing.T) (*auth.Handler, auth.Middleware, *shared.SessionManager, *users.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")

	logger := discardLogger()
	userSvc := users.NewService(logger, nopReplicator{})
	userSvc.Hydrate([]users.User{
		{ID: "u1", Username: "alice", PasswordHash: "correctpass", FullName: "Alice", Role: authz.RoleAgent, Branch: "North", Status: users.StatusActive},
		{ID: "u2", Username: "gone", PasswordHash: "correctpass", FullName: "Gone", Role: authz.RoleAgent, Branch: "North", Status: users.StatusInactive},
	})
	dirSvc := directory.NewService(logger, nil, userSvc, time.Second)
	handler := auth.NewHandler(logger, auth.NewService(userSvc, dirSvc), sessionManager, csrfManager)
	mw := auth.Middleware{Users: userSvc, Logger: logger}
	return handler, mw, sessionManager, userSvc
}

func doLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	mountAuth(handler).ServeHTTP(res, req)
	if err := sessionManager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res, sess
}

// mountAuth mirrors how the app mounts the handler under /auth.
func mountAuth(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func TestLoginSuccessBindsSession(t *testing.T) {
	handler, _, sessionManager, _ := newAuthFixture(t)

	res, sess := doLogin(t, handler, sessionManager, `{"username":"alice","password":"correctpass"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload struct {
		Username  string `json:"username"`
		Role      string `json:"role"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Username != "alice" || payload.Role != "agent" {
		t.Fatalf("unexpected identity in response: %+v", payload)
	}
	if payload.CSRFToken == "" {
		t.Fatal("expected csrf token in login response")
	}
	if sess.User() != "alice" {
		t.Fatalf("expected session bound to alice, got %q", sess.User())
	}
}

func TestLoginRejectsBadCredentialsAndInactiveAccounts(t *testing.T) {
	handler, _, sessionManager, _ := newAuthFixture(t)

	for _, body := range []string{
		`{"username":"alice","password":"wrongpass"}`,
		`{"username":"nobody","password":"correctpass"}`,
		`{"username":"gone","password":"correctpass"}`,
	} {
		res, sess := doLogin(t, handler, sessionManager, body)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("body %s: expected 401, got %d", body, res.Code)
		}
		if sess.User() != "" {
			t.Fatalf("body %s: session must stay anonymous", body)
		}
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	handler, _, sessionManager, _ := newAuthFixture(t)

	res, _ := doLogin(t, handler, sessionManager, `{"username":"alice"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}

	res, _ = doLogin(t, handler, sessionManager, `{not json`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestResolveSubjectMiddleware(t *testing.T) {
	_, mw, sessionManager, _ := newAuthFixture(t)

	var captured *authz.Subject
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser("alice")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	mw.ResolveSubject(next).ServeHTTP(httptest.NewRecorder(), req)
	if captured == nil || captured.Username != "alice" || captured.Role != authz.RoleAgent {
		t.Fatalf("expected alice subject, got %+v", captured)
	}
}

func TestResolveSubjectSkipsDeactivatedAccounts(t *testing.T) {
	_, mw, sessionManager, _ := newAuthFixture(t)

	var captured *authz.Subject
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser("gone")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	mw.ResolveSubject(next).ServeHTTP(httptest.NewRecorder(), req)
	if captured != nil {
		t.Fatalf("deactivated account must not resolve, got %+v", captured)
	}
}

func TestRequireSubjectRejectsAnonymous(t *testing.T) {
	_, mw, _, _ := newAuthFixture(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	mw.RequireSubject(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})).ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	handler, _, sessionManager, _ := newAuthFixture(t)

	res, sess := doLogin(t, handler, sessionManager, `{"username":"alice","password":"correctpass"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("login failed: %d", res.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	loaded, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), loaded)
	req = req.WithContext(ctx)

	out := httptest.NewRecorder()
	mountAuth(handler).ServeHTTP(out, req)
	if err := sessionManager.Commit(ctx, out, req, loaded); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	if out.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", out.Code)
	}

	again, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if again.User() != "" {
		t.Fatalf("expected destroyed session, still bound to %q", again.User())
	}
}
