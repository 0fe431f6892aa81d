package rehearse

import (
	"reflect"
	"time"
)

// Canonical header keys stamped by the default decorators.
const (
	// HeaderMessageID carries the globally unique message identifier.
	HeaderMessageID = "message_id"

	// HeaderAggregateRootID carries the identity of the aggregate the
	// message belongs to.
	HeaderAggregateRootID = "aggregate_root_id"

	// HeaderEventType carries the Go type name of the event payload.
	HeaderEventType = "event_type"

	// HeaderTimeOfRecording carries the recording time in RFC 3339 format
	// with nanoseconds.
	HeaderTimeOfRecording = "time_of_recording"
)

// AggregateRootID is an opaque identity naming one aggregate instance.
// It is stable for the lifetime of a scenario.
type AggregateRootID string

// IsZero reports whether the AggregateRootID is empty.
func (id AggregateRootID) IsZero() bool {
	return id == ""
}

// String returns the identity as a plain string.
func (id AggregateRootID) String() string {
	return string(id)
}

// Headers contains contextual key-value pairs attached to a message.
type Headers map[string]string

// With returns a copy of the Headers with the given key set.
// The receiver is never mutated.
func (h Headers) With(key, value string) Headers {
	next := make(Headers, len(h)+1)
	for k, v := range h {
		next[k] = v
	}
	next[key] = value
	return next
}

// Get returns the value for key, or the empty string if absent.
func (h Headers) Get(key string) string {
	return h[key]
}

// Message is the envelope around a single domain event. The Event payload
// is an arbitrary value whose equality is structural; headers and recording
// time are attached by decorators and never participate in event equality.
type Message struct {
	// AggregateRootID identifies the aggregate the event belongs to.
	AggregateRootID AggregateRootID

	// Headers contains contextual information about the event.
	Headers Headers

	// Time is when the event was recorded.
	Time time.Time

	// Event is the domain event payload.
	Event interface{}
}

// NewMessage creates a Message wrapping the given event payload.
func NewMessage(id AggregateRootID, event interface{}) Message {
	return Message{
		AggregateRootID: id,
		Headers:         Headers{},
		Event:           event,
	}
}

// WithHeader returns a copy of the Message with the header set.
func (m Message) WithHeader(key, value string) Message {
	m.Headers = m.Headers.With(key, value)
	return m
}

// WithTime returns a copy of the Message with the recording time set.
func (m Message) WithTime(t time.Time) Message {
	m.Time = t
	return m
}

// EventType returns the type name of the event payload (e.g., "Opened").
func (m Message) EventType() string {
	return EventTypeName(m.Event)
}

// EventTypeName returns the type name of an event value, unwrapping
// pointers. A nil event yields "<nil>".
func EventTypeName(event interface{}) string {
	if event == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(event)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Commit is an ordered batch of messages appended together in one persist
// call against one aggregate, tagged with the stream version the writer
// expected before the append.
type Commit struct {
	// AggregateRootID identifies the aggregate being appended to.
	AggregateRootID AggregateRootID

	// ExpectedVersion is the stream version the writer observed before
	// producing these messages.
	ExpectedVersion int64

	// Messages are the decorated messages, in recording order.
	Messages []Message
}

// NewCommit creates a Commit for the given aggregate and messages.
func NewCommit(id AggregateRootID, expectedVersion int64, messages []Message) Commit {
	return Commit{
		AggregateRootID: id,
		ExpectedVersion: expectedVersion,
		Messages:        messages,
	}
}

// Events returns the event payloads of the commit's messages, in order.
func (c Commit) Events() []interface{} {
	events := make([]interface{}, len(c.Messages))
	for i, m := range c.Messages {
		events[i] = m.Event
	}
	return events
}

// EventsOf extracts the event payloads from a message sequence, in order.
func EventsOf(messages []Message) []interface{} {
	events := make([]interface{}, len(messages))
	for i, m := range messages {
		events[i] = m.Event
	}
	return events
}

// Validate checks if the Commit is well formed.
func (c Commit) Validate() error {
	if c.AggregateRootID.IsZero() {
		return ErrEmptyAggregateRootID
	}
	if len(c.Messages) == 0 {
		return ErrNoMessages
	}
	return nil
}
