package rehearse

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source used by message decoration. Production wiring
// uses a real clock; scenarios substitute a TestClock so emitted messages
// carry deterministic timestamps.
type Clock = clockwork.Clock

// DefaultTestTime is the instant a TestClock starts at unless told
// otherwise.
var DefaultTestTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// NewClock returns a Clock backed by wall-clock time.
func NewClock() Clock {
	return clockwork.NewRealClock()
}

// TestClock is a controllable Clock pinned to a fixed instant. Time moves
// only through explicit Advance or Set calls.
type TestClock struct {
	*clockwork.FakeClock
}

// NewTestClock creates a TestClock pinned to DefaultTestTime.
func NewTestClock() *TestClock {
	return NewTestClockAt(DefaultTestTime)
}

// NewTestClockAt creates a TestClock pinned to the given instant.
func NewTestClockAt(t time.Time) *TestClock {
	return &TestClock{FakeClock: clockwork.NewFakeClockAt(t)}
}

// Set moves the clock forward to the given instant. Moving backwards is not
// supported; Set panics if t is before the current instant.
func (c *TestClock) Set(t time.Time) {
	d := t.Sub(c.Now())
	if d < 0 {
		panic("rehearse: test clock cannot move backwards")
	}
	if d > 0 {
		c.Advance(d)
	}
}
