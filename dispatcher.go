package rehearse

import (
	"context"

	"go.uber.org/zap"
)

// MessageConsumer receives messages forwarded by a dispatcher. A consumer's
// error propagates to the caller of Persist and halts remaining dispatch.
type MessageConsumer interface {
	Handle(ctx context.Context, message Message) error
}

// MessageConsumerFunc adapts a function to the MessageConsumer interface.
type MessageConsumerFunc func(ctx context.Context, message Message) error

// Handle calls the function.
func (f MessageConsumerFunc) Handle(ctx context.Context, message Message) error {
	return f(ctx, message)
}

// MessageDispatcher forwards an ordered batch of messages to consumers.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, messages ...Message) error
}

// MessageDispatcherFunc adapts a function to the MessageDispatcher interface.
type MessageDispatcherFunc func(ctx context.Context, messages ...Message) error

// Dispatch calls the function.
func (f MessageDispatcherFunc) Dispatch(ctx context.Context, messages ...Message) error {
	return f(ctx, messages...)
}

// Ensure SyncMessageDispatcher implements the dispatcher contract.
var _ MessageDispatcher = (*SyncMessageDispatcher)(nil)

// SyncMessageDispatcher invokes consumers one at a time, in registration
// order, passing each message in order. The first consumer error is
// returned unchanged and stops all remaining dispatch.
type SyncMessageDispatcher struct {
	consumers []MessageConsumer
}

// NewSyncMessageDispatcher creates a dispatcher over the given consumers.
func NewSyncMessageDispatcher(consumers ...MessageConsumer) *SyncMessageDispatcher {
	return &SyncMessageDispatcher{consumers: consumers}
}

// Subscribe appends a consumer. Consumers are invoked in subscription order.
func (d *SyncMessageDispatcher) Subscribe(consumer MessageConsumer) {
	d.consumers = append(d.consumers, consumer)
}

// ConsumerCount returns the number of subscribed consumers.
func (d *SyncMessageDispatcher) ConsumerCount() int {
	return len(d.consumers)
}

// Dispatch forwards the messages to every consumer synchronously.
func (d *SyncMessageDispatcher) Dispatch(ctx context.Context, messages ...Message) error {
	for _, consumer := range d.consumers {
		for _, message := range messages {
			if err := consumer.Handle(ctx, message); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoggingConsumer logs every message it receives. It never fails.
type LoggingConsumer struct {
	logger *zap.Logger
}

// NewLoggingConsumer creates a LoggingConsumer writing to the given logger.
func NewLoggingConsumer(logger *zap.Logger) *LoggingConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingConsumer{logger: logger}
}

// Handle logs the message at debug level.
func (c *LoggingConsumer) Handle(ctx context.Context, message Message) error {
	c.logger.Debug("message dispatched",
		zap.String("aggregate_root_id", message.AggregateRootID.String()),
		zap.String("event_type", message.EventType()),
		zap.Time("time_of_recording", message.Time),
	)
	return nil
}
