// Package jobs defines the background tasks and the Asynq worker that
// processes them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSyncPush is the task type for pushing a collection
	// snapshot to the remote sheet endpoint.
	TaskTypeSyncPush = "sync:push"
)

// SyncPushPayload carries one collection snapshot to the pusher.
type SyncPushPayload struct {
	Collection string          `json:"collection"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// NewSyncPushTask constructs an Asynq task for a snapshot push.
func NewSyncPushTask(collection string, snapshot []byte) (*asynq.Task, error) {
	data, err := json.Marshal(SyncPushPayload{Collection: collection, Snapshot: snapshot})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSyncPush, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}
