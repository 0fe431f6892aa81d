// Package scenario provides Given/When/Then testing for event-sourced
// aggregates. A Scenario stages historical events, invokes the test's
// command handler, and - once the test body returns - asserts the recorded
// events or the captured failure against the declared expectations.
package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AshkanYarmoradi/rehearse"
)

// TB is an alias for testing.TB interface to allow mocking in tests
type TB = testing.TB

// CommandHandler is the behavior under test: it receives the arguments
// passed to When and may return a rehearse.Failure (or any error) which the
// scenario captures instead of propagating.
type CommandHandler interface {
	Handle(ctx context.Context, args ...interface{}) error
}

// CommandHandlerFunc adapts a function to the CommandHandler interface.
type CommandHandlerFunc func(ctx context.Context, args ...interface{}) error

// Handle calls the function.
func (f CommandHandlerFunc) Handle(ctx context.Context, args ...interface{}) error {
	return f(ctx, args...)
}

// Scenario drives one Given/When/Then cycle. Construct one per test with
// New; the post-test assertion is registered with t.Cleanup and runs
// exactly once, idempotently, after the test body.
//
// A Scenario owns all of its state (identity, clock, message log,
// repository) and is not safe for concurrent use.
type Scenario struct {
	t        TB
	ctx      context.Context
	clock    *rehearse.TestClock
	id       rehearse.AggregateRootID
	messages *rehearse.InMemoryMessageRepository
	repo     *rehearse.AggregateRootRepository
	handler  CommandHandler

	expected        []interface{}
	expectedFailure rehearse.Failure
	caught          error
	asserted        bool
}

type config struct {
	id         rehearse.AggregateRootID
	startTime  time.Time
	handler    func(*rehearse.AggregateRootRepository) CommandHandler
	consumers  []rehearse.MessageConsumer
	decorators []rehearse.MessageDecorator
	logger     *zap.Logger
}

// Option configures a Scenario.
type Option func(*config)

// WithHandler configures the command handler invoked by When. The build
// function receives the scenario's repository so the handler can load and
// persist aggregates through it.
func WithHandler(build func(*rehearse.AggregateRootRepository) CommandHandler) Option {
	return func(c *config) {
		c.handler = build
	}
}

// WithAggregateRootID fixes the identity under test instead of generating
// a fresh one.
func WithAggregateRootID(id rehearse.AggregateRootID) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithStartTime pins the scenario clock to the given instant instead of
// rehearse.DefaultTestTime.
func WithStartTime(t time.Time) Option {
	return func(c *config) {
		c.startTime = t
	}
}

// WithConsumers subscribes consumers that receive every persisted message
// synchronously, in order. Consumers also fire during Given staging.
func WithConsumers(consumers ...rehearse.MessageConsumer) Option {
	return func(c *config) {
		c.consumers = append(c.consumers, consumers...)
	}
}

// WithDecorators appends message decorators after the default chain.
func WithDecorators(decorators ...rehearse.MessageDecorator) Option {
	return func(c *config) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithLogger sets the logger used by the scenario's repository.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates a fresh Scenario: new identity, empty message log, and a test
// clock pinned to a fixed instant. The post-test assertion is registered
// with t.Cleanup. A nil factory is a fatal configuration error.
func New(t TB, factory rehearse.AggregateRootFactory, opts ...Option) *Scenario {
	t.Helper()

	if factory == nil {
		t.Fatalf("scenario: aggregate root factory is required")
	}

	cfg := config{
		startTime: rehearse.DefaultTestTime,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.id.IsZero() {
		cfg.id = rehearse.AggregateRootID(uuid.NewString())
	}

	clock := rehearse.NewTestClockAt(cfg.startTime)
	messages := rehearse.NewInMemoryMessageRepository()

	ropts := []rehearse.RepositoryOption{
		rehearse.WithClock(clock),
		rehearse.WithRepositoryLogger(cfg.logger),
	}
	if len(cfg.consumers) > 0 {
		ropts = append(ropts, rehearse.WithConsumers(cfg.consumers...))
	}
	if len(cfg.decorators) > 0 {
		ropts = append(ropts, rehearse.WithDecorators(cfg.decorators...))
	}

	repo := rehearse.NewAggregateRootRepository(factory, messages, ropts...)

	s := &Scenario{
		t:        t,
		ctx:      context.Background(),
		clock:    clock,
		id:       cfg.id,
		messages: messages,
		repo:     repo,
	}

	if cfg.handler != nil {
		s.handler = cfg.handler(repo)
	}

	t.Cleanup(s.Assert)

	return s
}

// AggregateRootID returns the identity under test.
func (s *Scenario) AggregateRootID() rehearse.AggregateRootID {
	return s.id
}

// Repository returns the scenario's aggregate repository, for wiring into
// the behavior under test.
func (s *Scenario) Repository() *rehearse.AggregateRootRepository {
	return s.repo
}

// Messages returns the scenario's in-memory message log.
func (s *Scenario) Messages() *rehearse.InMemoryMessageRepository {
	return s.messages
}

// Clock returns the scenario's test clock. Advance it to move time.
func (s *Scenario) Clock() *rehearse.TestClock {
	return s.clock
}

// Given stages events as prior history of the aggregate under test. Staged
// events are preconditions, not assertions: the last-commit slot is purged
// afterwards so they never appear in the asserted outcome.
func (s *Scenario) Given(events ...interface{}) *Scenario {
	s.t.Helper()
	s.stage(s.id, events)
	return s
}

// On returns a Stager bound to a different aggregate identity, for staging
// preconditions on aggregates other than the one under test.
func (s *Scenario) On(id rehearse.AggregateRootID) *Stager {
	return &Stager{scenario: s, id: id}
}

// When invokes the configured command handler with the given arguments. A
// failure returned by the handler is captured as the scenario outcome and
// compared during the post-test assertion. Calling When without a
// configured handler is a fatal configuration error.
func (s *Scenario) When(args ...interface{}) *Scenario {
	s.t.Helper()

	if s.handler == nil {
		s.t.Fatalf("scenario: no command handler configured - pass scenario.WithHandler to New")
	}

	if err := s.handler.Handle(s.ctx, args...); err != nil {
		s.caught = err
	}

	return s
}

// Then declares the events the last When is expected to have committed, in
// order.
func (s *Scenario) Then(events ...interface{}) *Scenario {
	s.expected = events
	return s
}

// ThenNothingShouldHaveHappened declares explicitly that no events are
// expected. This is also the default when Then is never called.
func (s *Scenario) ThenNothingShouldHaveHappened() *Scenario {
	s.expected = nil
	return s
}

// ExpectToFail declares that the last When is expected to have failed with
// the given failure. Kind, message, and code must all match.
func (s *Scenario) ExpectToFail(failure rehearse.Failure) *Scenario {
	s.expectedFailure = failure
	return s
}

// Assert runs the post-test comparison: expected failure against captured
// failure first, then expected events against the log's last commit. The
// last-commit slot is purged afterwards. Assert is registered with
// t.Cleanup by New and is a no-op when invoked again.
func (s *Scenario) Assert() {
	s.t.Helper()

	if s.asserted {
		return
	}
	s.asserted = true

	defer s.messages.PurgeLastCommit()

	AssertFailure(s.t, s.expectedFailure, s.caught)
	AssertEventsEqual(s.t, s.expected, rehearse.EventsOf(s.messages.LastCommit()))
}

// stage persists events as raw history for id, then purges the last-commit
// slot. A staging error signals a broken test and fails immediately.
func (s *Scenario) stage(id rehearse.AggregateRootID, events []interface{}) {
	s.t.Helper()

	if len(events) == 0 {
		return
	}

	version := int64(s.messages.HistorySize(id))
	if err := s.repo.PersistEvents(s.ctx, id, version, events...); err != nil {
		s.t.Fatalf("scenario: failed to stage events for %q: %v", id, err)
	}

	s.messages.PurgeLastCommit()
}
