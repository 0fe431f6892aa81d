package rehearse

import (
	"context"

	"go.uber.org/zap"
)

// AggregateRootRepository bridges aggregate behavior and message storage.
// Retrieve reconstructs an aggregate by replaying its history; Persist
// releases the aggregate's recorded events, decorates them, appends them as
// one commit, and forwards them to the dispatcher. PersistEvents is the raw
// staging entry point used to seed history without an aggregate instance.
type AggregateRootRepository struct {
	factory    AggregateRootFactory
	messages   MessageRepository
	dispatcher MessageDispatcher
	decorators MessageDecoratorChain
	extra      []MessageDecorator
	clock      Clock
	logger     *zap.Logger
}

// RepositoryOption configures an AggregateRootRepository.
type RepositoryOption func(*AggregateRootRepository)

// WithClock sets the clock used by the default timestamping decorator.
func WithClock(clock Clock) RepositoryOption {
	return func(r *AggregateRootRepository) {
		r.clock = clock
	}
}

// WithDispatcher replaces the message dispatcher.
func WithDispatcher(dispatcher MessageDispatcher) RepositoryOption {
	return func(r *AggregateRootRepository) {
		r.dispatcher = dispatcher
	}
}

// WithConsumers subscribes consumers on a synchronous dispatcher.
// Consumers are invoked one at a time, in the given order.
func WithConsumers(consumers ...MessageConsumer) RepositoryOption {
	return func(r *AggregateRootRepository) {
		r.dispatcher = NewSyncMessageDispatcher(consumers...)
	}
}

// WithDecorators appends decorators after the default chain.
func WithDecorators(decorators ...MessageDecorator) RepositoryOption {
	return func(r *AggregateRootRepository) {
		r.extra = append(r.extra, decorators...)
	}
}

// WithRepositoryLogger sets the logger. Defaults to a no-op logger.
func WithRepositoryLogger(logger *zap.Logger) RepositoryOption {
	return func(r *AggregateRootRepository) {
		r.logger = logger
	}
}

// NewAggregateRootRepository creates a repository for aggregates built by
// the factory, storing messages in the given message repository. The
// default decoration chain stamps recording time and identifying headers;
// the default dispatcher has no consumers.
func NewAggregateRootRepository(factory AggregateRootFactory, messages MessageRepository, opts ...RepositoryOption) *AggregateRootRepository {
	r := &AggregateRootRepository{
		factory:  factory,
		messages: messages,
		clock:    NewClock(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	// The default chain is built after options so it sees the final clock.
	r.decorators = NewMessageDecoratorChain(
		NewTimestampingDecorator(r.clock),
		NewDefaultHeadersDecorator(),
	)
	r.decorators = append(r.decorators, r.extra...)

	if r.dispatcher == nil {
		r.dispatcher = NewSyncMessageDispatcher()
	}

	return r
}

// Retrieve reconstructs the aggregate with the given identity by replaying
// its full history in order. It returns an AggregateNotFoundError if the
// aggregate has no history.
func (r *AggregateRootRepository) Retrieve(ctx context.Context, id AggregateRootID) (AggregateRoot, error) {
	history, err := r.messages.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return nil, NewAggregateNotFoundError(id)
	}

	root := r.factory(id)
	for _, message := range history {
		root.ApplyEvent(message.Event)
	}

	if setter, ok := root.(VersionSetter); ok {
		setter.SetVersion(int64(len(history)))
	}

	r.logger.Debug("aggregate root retrieved",
		zap.String("aggregate_root_id", id.String()),
		zap.Int("events", len(history)),
	)

	return root, nil
}

// Persist releases the aggregate's recorded events and commits them against
// the version the aggregate was loaded at. On success the aggregate's
// version is advanced by the number of committed events. Persisting an
// aggregate with no recorded events is a no-op.
func (r *AggregateRootRepository) Persist(ctx context.Context, root AggregateRoot) error {
	if root == nil {
		return ErrNilAggregate
	}

	events := root.ReleaseEvents()
	if len(events) == 0 {
		return nil
	}

	expectedVersion := root.Version()
	if err := r.commit(ctx, root.AggregateRootID(), expectedVersion, events); err != nil {
		return err
	}

	if setter, ok := root.(VersionSetter); ok {
		setter.SetVersion(expectedVersion + int64(len(events)))
	}

	return nil
}

// PersistEvents commits raw events against the given identity without an
// aggregate instance. It runs the same decoration and dispatch path as
// Persist and is how scenarios seed historical events.
func (r *AggregateRootRepository) PersistEvents(ctx context.Context, id AggregateRootID, expectedVersion int64, events ...interface{}) error {
	if len(events) == 0 {
		return ErrNoMessages
	}
	return r.commit(ctx, id, expectedVersion, events)
}

func (r *AggregateRootRepository) commit(ctx context.Context, id AggregateRootID, expectedVersion int64, events []interface{}) error {
	messages := make([]Message, len(events))
	for i, event := range events {
		messages[i] = r.decorators.Decorate(NewMessage(id, event))
	}

	if err := r.messages.Persist(ctx, NewCommit(id, expectedVersion, messages)); err != nil {
		return err
	}

	r.logger.Debug("commit persisted",
		zap.String("aggregate_root_id", id.String()),
		zap.Int64("expected_version", expectedVersion),
		zap.Int("events", len(messages)),
	)

	return r.dispatcher.Dispatch(ctx, messages...)
}
