package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/salescope/salescope/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleSyncPushPostsSnapshot(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "sales", r.URL.Query().Get("sheet"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	task, err := NewSyncPushTask("sales", []byte(`[{"id":"1"}]`))
	require.NoError(t, err)

	pusher := NewSheetPusher(srv.URL, testLogger())
	require.NoError(t, pusher.HandleSyncPush(context.Background(), task))

	assert.Equal(t, "SAVE_ALL", received["action"])
	assert.Equal(t, "sales", received["sheet"])
}

func TestHandleSyncPushRetriesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	task, err := NewSyncPushTask("sales", []byte(`[]`))
	require.NoError(t, err)

	pusher := NewSheetPusher(srv.URL, testLogger())
	err = pusher.HandleSyncPush(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSyncPushSkipsRetryOnBadPayload(t *testing.T) {
	pusher := NewSheetPusher("http://127.0.0.1:0", testLogger())

	bad := asynq.NewTask(TaskTypeSyncPush, []byte("not json"))
	err := pusher.HandleSyncPush(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	missing := asynq.NewTask(TaskTypeSyncPush, []byte(`{"snapshot":[]}`))
	err = pusher.HandleSyncPush(context.Background(), missing)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSyncPushWithoutEndpointIsNoOp(t *testing.T) {
	task, err := NewSyncPushTask("sales", []byte(`[]`))
	require.NoError(t, err)

	pusher := NewSheetPusher("", testLogger())
	assert.NoError(t, pusher.HandleSyncPush(context.Background(), task))
}
