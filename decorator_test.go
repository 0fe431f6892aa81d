package rehearse

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageDecoratorChain_Decorate(t *testing.T) {
	chain := NewMessageDecoratorChain(
		MessageDecoratorFunc(func(m Message) Message { return m.WithHeader("step", "one") }),
		MessageDecoratorFunc(func(m Message) Message { return m.WithHeader("step", "two") }),
	)

	decorated := chain.Decorate(NewMessage("order-1", OrderPlaced{}))

	assert.Equal(t, "two", decorated.Headers.Get("step"), "later decorators run after earlier ones")
}

func TestTimestampingDecorator_Decorate(t *testing.T) {
	clock := NewTestClockAt(time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC))
	d := NewTimestampingDecorator(clock)

	decorated := d.Decorate(NewMessage("order-1", OrderPlaced{}))

	assert.Equal(t, clock.Now(), decorated.Time)
	assert.Equal(t, "2024-03-10T08:30:00Z", decorated.Headers.Get(HeaderTimeOfRecording))

	clock.Advance(time.Hour)
	later := d.Decorate(NewMessage("order-1", OrderPlaced{}))
	assert.Equal(t, time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC), later.Time)
}

func TestDefaultHeadersDecorator_Decorate(t *testing.T) {
	d := NewDefaultHeadersDecorator()

	decorated := d.Decorate(NewMessage("order-1", OrderPlaced{OrderID: "order-1"}))

	assert.Equal(t, "order-1", decorated.Headers.Get(HeaderAggregateRootID))
	assert.Equal(t, "OrderPlaced", decorated.Headers.Get(HeaderEventType))

	id, err := uuid.Parse(decorated.Headers.Get(HeaderMessageID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}
