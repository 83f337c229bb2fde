package directory

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/users"
)

type nopReplicator struct{}

func (nopReplicator) Offer(string, any) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededUserService(t *testing.T) *users.Service {
	t.Helper()
	svc := users.NewService(testLogger(), nopReplicator{})
	svc.Hydrate([]users.User{
		{ID: "cached", Username: "cached", PasswordHash: "pw", FullName: "Cached User", Role: authz.RoleAgent, Branch: "North", Status: users.StatusActive},
	})
	return svc
}

func directoryServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET_ALL", r.URL.Query().Get("action"))
		assert.NotEmpty(t, r.URL.Query().Get("sheet"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshReplacesDirectoryOnSuccess(t *testing.T) {
	srv := directoryServer(t, `{"success":true,"data":[
		{"username":"alice","password":"secret","fullname":"Alice","role":"agent","branch":"North","status":"Active"},
		{"username":"sup","password":"secret","fullname":"Sam","role":"supervisor","branch":"North"}
	]}`)

	userSvc := seededUserService(t)
	svc := NewService(testLogger(), NewHTTPSource(srv.URL, "users", srv.Client()), userSvc, time.Second)
	svc.Refresh(context.Background())

	assert.Equal(t, 2, userSvc.Len())
	_, ok := userSvc.FindActive("cached")
	assert.False(t, ok)
	fetched, ok := userSvc.FindActive("alice")
	require.True(t, ok)
	assert.Equal(t, authz.RoleAgent, fetched.Role)
	// Missing status defaults to active.
	_, ok = userSvc.FindActive("sup")
	assert.True(t, ok)
}

func TestRefreshDropsMalformedRows(t *testing.T) {
	srv := directoryServer(t, `{"success":true,"data":[
		{"username":"","password":"x","role":"agent"},
		{"username":"nopass","password":"","role":"agent"},
		{"username":"badrole","password":"x","role":"manager"},
		{"username":"good","password":"x","fullname":"Good","role":"admin","branch":"HQ"}
	]}`)

	userSvc := seededUserService(t)
	svc := NewService(testLogger(), NewHTTPSource(srv.URL, "users", srv.Client()), userSvc, time.Second)
	svc.Refresh(context.Background())

	require.Equal(t, 1, userSvc.Len())
	_, ok := userSvc.FindActive("good")
	assert.True(t, ok)
}

func TestRefreshKeepsCacheOnFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"remote error flag", `{"success":false,"message":"sheet unavailable"}`, http.StatusOK},
		{"empty directory", `{"success":true,"data":[]}`, http.StatusOK},
		{"malformed json", `{"success":true,"data":[`, http.StatusOK},
		{"server error", `boom`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			userSvc := seededUserService(t)
			svc := NewService(testLogger(), NewHTTPSource(srv.URL, "users", srv.Client()), userSvc, time.Second)
			svc.Refresh(context.Background())

			assert.Equal(t, 1, userSvc.Len())
			_, ok := userSvc.FindActive("cached")
			assert.True(t, ok)
		})
	}
}

func TestRefreshTimesOutAndKeepsCache(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	userSvc := seededUserService(t)
	svc := NewService(testLogger(), NewHTTPSource(srv.URL, "users", srv.Client()), userSvc, 50*time.Millisecond)

	done := make(chan struct{})
	go func() {
		svc.Refresh(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not respect its timeout")
	}

	_, ok := userSvc.FindActive("cached")
	assert.True(t, ok)
}

func TestRefreshWithoutSourceIsNoOp(t *testing.T) {
	userSvc := seededUserService(t)
	svc := NewService(testLogger(), nil, userSvc, time.Second)
	svc.Refresh(context.Background())
	assert.Equal(t, 1, userSvc.Len())
}
