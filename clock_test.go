package rehearse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestClock(t *testing.T) {
	t.Run("pinned to its start instant", func(t *testing.T) {
		clock := NewTestClock()

		assert.Equal(t, DefaultTestTime, clock.Now())
		assert.Equal(t, DefaultTestTime, clock.Now(), "time does not move on its own")
	})

	t.Run("advance moves time explicitly", func(t *testing.T) {
		clock := NewTestClock()
		clock.Advance(90 * time.Minute)

		assert.Equal(t, DefaultTestTime.Add(90*time.Minute), clock.Now())
	})

	t.Run("set moves to an absolute instant", func(t *testing.T) {
		clock := NewTestClock()
		target := DefaultTestTime.Add(24 * time.Hour)
		clock.Set(target)

		assert.Equal(t, target, clock.Now())
	})

	t.Run("set to the current instant is a no-op", func(t *testing.T) {
		clock := NewTestClock()
		clock.Set(clock.Now())

		assert.Equal(t, DefaultTestTime, clock.Now())
	})

	t.Run("set backwards panics", func(t *testing.T) {
		clock := NewTestClock()

		assert.Panics(t, func() {
			clock.Set(DefaultTestTime.Add(-time.Second))
		})
	})
}
