package rehearse

import (
	"context"
	"sync"
)

// MessageRepository is the storage contract the aggregate repository facade
// is written against. Production implementations persist durably; the
// in-memory implementation below backs scenario execution. Both must keep
// per-aggregate history ordered by append.
type MessageRepository interface {
	// Persist appends the commit's messages to the aggregate's history.
	Persist(ctx context.Context, commit Commit) error

	// Retrieve returns the full ordered history for the aggregate.
	// An unknown aggregate yields an empty history, not an error.
	Retrieve(ctx context.Context, id AggregateRootID) ([]Message, error)
}

// Ensure InMemoryMessageRepository implements the repository contract.
var _ MessageRepository = (*InMemoryMessageRepository)(nil)

// InMemoryMessageRepository is an append-only, process-local message store.
// Besides full per-aggregate history it tracks the most recent commit's
// messages in a single slot, overwritten on every Persist and cleared with
// PurgeLastCommit. The slot is what scenario assertions inspect.
type InMemoryMessageRepository struct {
	mu         sync.RWMutex
	streams    map[AggregateRootID][]Message
	lastCommit []Message
}

// NewInMemoryMessageRepository creates an empty in-memory message repository.
func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{
		streams: make(map[AggregateRootID][]Message),
	}
}

// Persist appends the commit's messages to the aggregate's history in order
// and replaces the last-commit slot with exactly those messages. No version
// check is enforced at this layer; optimistic-concurrency validation is the
// caller's concern.
func (r *InMemoryMessageRepository) Persist(ctx context.Context, commit Commit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := commit.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.streams[commit.AggregateRootID] = append(r.streams[commit.AggregateRootID], commit.Messages...)
	r.lastCommit = append([]Message(nil), commit.Messages...)

	return nil
}

// Retrieve returns the full ordered history for the aggregate. The returned
// slice is a copy.
func (r *InMemoryMessageRepository) Retrieve(ctx context.Context, id AggregateRootID) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id.IsZero() {
		return nil, ErrEmptyAggregateRootID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Message(nil), r.streams[id]...), nil
}

// LastCommit returns the messages of the most recent commit, in order.
// It returns an empty slice if nothing was persisted since the last purge.
func (r *InMemoryMessageRepository) LastCommit() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Message(nil), r.lastCommit...)
}

// PurgeLastCommit clears the last-commit slot without touching history.
// Scenarios purge after staging so preconditions never leak into the
// asserted commit, and again after each assertion.
func (r *InMemoryMessageRepository) PurgeLastCommit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastCommit = nil
}

// HistorySize returns the number of messages recorded for the aggregate.
func (r *InMemoryMessageRepository) HistorySize(id AggregateRootID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.streams[id])
}

// Reset clears all history and the last-commit slot. Useful for reusing a
// repository across tests.
func (r *InMemoryMessageRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.streams = make(map[AggregateRootID][]Message)
	r.lastCommit = nil
}
