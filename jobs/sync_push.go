package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/salescope/salescope/internal/jobs"
)

// SheetPusher POSTs collection snapshots to the remote sheet endpoint.
type SheetPusher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
}

// NewSheetPusher constructs a SheetPusher.
func NewSheetPusher(endpoint string, logger *slog.Logger) *SheetPusher {
	return &SheetPusher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		metrics:  jobmetrics.NewMetrics(nil),
	}
}

// HandleSyncPush processes TaskTypeSyncPush tasks. Malformed payloads
// skip retry; transport and server errors are retried by Asynq.
func (p *SheetPusher) HandleSyncPush(ctx context.Context, t *asynq.Task) error {
	return p.metrics.Track(TaskTypeSyncPush).End(p.pushSnapshot(ctx, t))
}

func (p *SheetPusher) pushSnapshot(ctx context.Context, t *asynq.Task) error {
	var payload SyncPushPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode sync payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Collection == "" {
		return fmt.Errorf("sync payload missing collection: %w", asynq.SkipRetry)
	}
	if p.endpoint == "" {
		p.logger.Debug("sheet push skipped, no endpoint configured",
			slog.String("collection", payload.Collection))
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"action": "SAVE_ALL",
		"sheet":  payload.Collection,
		"data":   payload.Snapshot,
	})
	if err != nil {
		return fmt.Errorf("encode push body: %w: %w", err, asynq.SkipRetry)
	}

	target := p.endpoint + "?sheet=" + url.QueryEscape(payload.Collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push %s snapshot: %w", payload.Collection, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push %s snapshot: unexpected status %d", payload.Collection, resp.StatusCode)
	}

	p.logger.Info("snapshot pushed",
		slog.String("collection", payload.Collection),
		slog.Int("status", resp.StatusCode))
	return nil
}
