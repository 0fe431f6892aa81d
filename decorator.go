package rehearse

import (
	"time"

	"github.com/google/uuid"
)

// MessageDecorator is a pure transform applied to each message before it is
// persisted. Decorators compose as an ordered chain and must be
// deterministic given the Clock.
type MessageDecorator interface {
	Decorate(message Message) Message
}

// MessageDecoratorFunc adapts a function to the MessageDecorator interface.
type MessageDecoratorFunc func(message Message) Message

// Decorate calls the function.
func (f MessageDecoratorFunc) Decorate(message Message) Message {
	return f(message)
}

// MessageDecoratorChain applies decorators in order.
type MessageDecoratorChain []MessageDecorator

// NewMessageDecoratorChain composes decorators into a single decorator.
func NewMessageDecoratorChain(decorators ...MessageDecorator) MessageDecoratorChain {
	return MessageDecoratorChain(decorators)
}

// Decorate runs the message through every decorator in order.
func (c MessageDecoratorChain) Decorate(message Message) Message {
	for _, d := range c {
		message = d.Decorate(message)
	}
	return message
}

// TimestampingDecorator stamps the recording time from a Clock onto the
// message, both as the Time field and the time_of_recording header.
type TimestampingDecorator struct {
	clock Clock
}

// NewTimestampingDecorator creates a TimestampingDecorator using the clock.
func NewTimestampingDecorator(clock Clock) *TimestampingDecorator {
	return &TimestampingDecorator{clock: clock}
}

// Decorate stamps the current clock reading onto the message.
func (d *TimestampingDecorator) Decorate(message Message) Message {
	now := d.clock.Now()
	return message.
		WithTime(now).
		WithHeader(HeaderTimeOfRecording, now.Format(time.RFC3339Nano))
}

// DefaultHeadersDecorator attaches the canonical identifying headers:
// a unique message ID, the aggregate root ID, and the event type name.
type DefaultHeadersDecorator struct{}

// NewDefaultHeadersDecorator creates a DefaultHeadersDecorator.
func NewDefaultHeadersDecorator() *DefaultHeadersDecorator {
	return &DefaultHeadersDecorator{}
}

// Decorate attaches the default headers to the message.
func (d *DefaultHeadersDecorator) Decorate(message Message) Message {
	return message.
		WithHeader(HeaderMessageID, uuid.NewString()).
		WithHeader(HeaderAggregateRootID, message.AggregateRootID.String()).
		WithHeader(HeaderEventType, message.EventType())
}
