package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/jobs"
)

const offerTimeout = 10 * time.Second

// Enqueuer schedules background tasks. *asynq.Client satisfies it.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Replicator receives collection snapshots after each mutation and
// pushes them to the store and the job queue off the caller's path.
type Replicator struct {
	logger   *slog.Logger
	store    SnapshotStore
	enqueuer Enqueuer
	wg       sync.WaitGroup
}

// New constructs a Replicator. store and enqueuer may be nil, in which
// case the corresponding sink is skipped.
func New(logger *slog.Logger, store SnapshotStore, enqueuer Enqueuer) *Replicator {
	return &Replicator{logger: logger, store: store, enqueuer: enqueuer}
}

// Offer accepts a snapshot and returns immediately. Persistence and the
// sheet push happen in the background; failures are logged, never
// surfaced to the mutating request.
func (r *Replicator) Offer(collection string, snapshot any) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("marshal snapshot",
			slog.String("collection", collection), slog.Any("error", err))
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), offerTimeout)
		defer cancel()

		if r.store != nil {
			if err := r.store.Save(ctx, collection, payload); err != nil {
				r.logger.Warn("save snapshot",
					slog.String("collection", collection), slog.Any("error", err))
			}
		}
		if r.enqueuer != nil {
			task, err := jobs.NewSyncPushTask(collection, payload)
			if err != nil {
				r.logger.Error("build sync task",
					slog.String("collection", collection), slog.Any("error", err))
				return
			}
			if _, err := r.enqueuer.Enqueue(task); err != nil {
				r.logger.Warn("enqueue sync task",
					slog.String("collection", collection), slog.Any("error", err))
			}
		}
	}()
}

// Wait blocks until in-flight offers finish. Called during shutdown.
func (r *Replicator) Wait() {
	r.wg.Wait()
}

// Hydrate loads the newest snapshot for collection into dst. A missing
// snapshot is not an error; the collection simply starts empty.
func (r *Replicator) Hydrate(ctx context.Context, collection string, dst any) error {
	if r.store == nil {
		return nil
	}
	payload, err := r.store.Load(ctx, collection)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return json.Unmarshal(payload, dst)
}
