package rehearse

// AggregateRoot is the behavior the repository facade needs from an
// event-sourced aggregate: an identity, event application for replay, and
// extraction of events recorded since the last persist.
type AggregateRoot interface {
	// AggregateRootID returns the aggregate's identity.
	AggregateRootID() AggregateRootID

	// Version returns the persisted version of the aggregate: the number
	// of events committed to its stream.
	Version() int64

	// ApplyEvent updates the aggregate's state from an event. It must be
	// deterministic; it is called for every historical event on replay.
	ApplyEvent(event interface{})

	// ReleaseEvents returns the events recorded since the last release,
	// in recording order, and clears them.
	ReleaseEvents() []interface{}
}

// VersionSetter is implemented by aggregates whose version can be advanced
// after a successful persist. AggregateRootBase implements it.
type VersionSetter interface {
	SetVersion(v int64)
}

// AggregateRootFactory creates an empty aggregate instance for the given
// identity, ready to have history replayed into it.
type AggregateRootFactory func(id AggregateRootID) AggregateRoot

// AggregateRootBase provides a default partial implementation of
// AggregateRoot. Embed it in aggregate types; the embedding type implements
// ApplyEvent and calls Record for each new event it raises.
type AggregateRootBase struct {
	id       AggregateRootID
	version  int64
	recorded []interface{}
}

// NewAggregateRootBase creates an AggregateRootBase with the given identity.
func NewAggregateRootBase(id AggregateRootID) AggregateRootBase {
	return AggregateRootBase{id: id}
}

// AggregateRootID returns the aggregate's identity.
func (b *AggregateRootBase) AggregateRootID() AggregateRootID {
	return b.id
}

// Version returns the persisted version of the aggregate.
func (b *AggregateRootBase) Version() int64 {
	return b.version
}

// SetVersion sets the persisted version.
func (b *AggregateRootBase) SetVersion(v int64) {
	b.version = v
}

// Record stores an event as pending release. The aggregate should update
// its own state alongside, typically by calling its ApplyEvent.
func (b *AggregateRootBase) Record(event interface{}) {
	b.recorded = append(b.recorded, event)
}

// HasRecordedEvents reports whether events are waiting to be persisted.
func (b *AggregateRootBase) HasRecordedEvents() bool {
	return len(b.recorded) > 0
}

// ReleaseEvents returns the recorded events in order and clears them.
func (b *AggregateRootBase) ReleaseEvents() []interface{} {
	events := b.recorded
	b.recorded = nil
	return events
}
