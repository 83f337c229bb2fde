package record

import (
	"sync"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/shared"
)

// Entity is anything a Collection can hold.
type Entity interface {
	authz.Record
	EntityID() string
}

// ChangeFunc receives a copy of the full collection after a mutation so
// it can be offered for replication. It must not block.
type ChangeFunc[T Entity] func(snapshot []T)

// Collection is an ordered in-memory record store addressed by stable
// ids. Mutations are atomic under a single write lock and authorization
// runs against the stored record before any change is applied, so a
// denied operation leaves the collection untouched. Reads return copies;
// a render pass can never observe a half-applied change.
type Collection[T Entity] struct {
	mu       sync.RWMutex
	items    []T
	onChange ChangeFunc[T]
}

// New constructs an empty collection. onChange may be nil.
func New[T Entity](onChange ChangeFunc[T]) *Collection[T] {
	return &Collection[T]{onChange: onChange}
}

// Snapshot returns a copy of the collection in insertion order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Replace swaps the collection contents during hydration. It does not
// fire the change notification: hydration restores persisted state, it
// does not produce new state to replicate.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.mu.Unlock()
}

// Visible returns the subsequence of the collection the subject may
// view, preserving insertion order.
func (c *Collection[T]) Visible(subject *authz.Subject) []T {
	return authz.FilterVisible(subject, c.Snapshot())
}

// Get looks up a record by id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Append adds a record to the end of the collection.
func (c *Collection[T]) Append(item T) T {
	c.mu.Lock()
	c.items = append(c.items, item)
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.notify(snapshot)
	return item
}

// Update mutates the record with the given id. authorize is evaluated
// against the stored record before apply runs, so the pre-update owner
// and branch govern whether the edit is allowed; apply cannot be used to
// escalate access.
func (c *Collection[T]) Update(id string, authorize func(T) error, apply func(T) T) (T, error) {
	var zero T
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return zero, shared.ErrNotFound
	}
	if authorize != nil {
		if err := authorize(c.items[idx]); err != nil {
			c.mu.Unlock()
			return zero, err
		}
	}
	updated := apply(c.items[idx])
	c.items[idx] = updated
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.notify(snapshot)
	return updated, nil
}

// Delete removes the record with the given id after authorize accepts
// the stored record.
func (c *Collection[T]) Delete(id string, authorize func(T) error) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return shared.ErrNotFound
	}
	if authorize != nil {
		if err := authorize(c.items[idx]); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.notify(snapshot)
	return nil
}

func (c *Collection[T]) indexLocked(id string) int {
	for i, item := range c.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) copyLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) notify(snapshot []T) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}
