package rehearse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConsumer struct {
	name     string
	received []string
	sink     *[]string
	fail     error
}

func (c *recordingConsumer) Handle(ctx context.Context, message Message) error {
	if c.fail != nil {
		return c.fail
	}
	entry := c.name + ":" + message.EventType()
	c.received = append(c.received, entry)
	if c.sink != nil {
		*c.sink = append(*c.sink, entry)
	}
	return nil
}

func TestSyncMessageDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("one consumer at a time, messages in order", func(t *testing.T) {
		var order []string
		first := &recordingConsumer{name: "first", sink: &order}
		second := &recordingConsumer{name: "second", sink: &order}
		d := NewSyncMessageDispatcher(first, second)

		err := d.Dispatch(ctx,
			NewMessage("order-1", OrderPlaced{OrderID: "order-1"}),
			NewMessage("order-1", OrderShipped{Carrier: "ups"}),
		)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"first:OrderPlaced", "first:OrderShipped",
			"second:OrderPlaced", "second:OrderShipped",
		}, order)
	})

	t.Run("consumer failure propagates unchanged and halts dispatch", func(t *testing.T) {
		boom := errors.New("consumer exploded")
		failing := &recordingConsumer{name: "failing", fail: boom}
		after := &recordingConsumer{name: "after"}
		d := NewSyncMessageDispatcher(failing, after)

		err := d.Dispatch(ctx, NewMessage("order-1", OrderPlaced{}))

		assert.Same(t, boom, err)
		assert.Empty(t, after.received)
	})

	t.Run("no consumers is a no-op", func(t *testing.T) {
		d := NewSyncMessageDispatcher()
		assert.NoError(t, d.Dispatch(ctx, NewMessage("order-1", OrderPlaced{})))
	})
}

func TestSyncMessageDispatcher_Subscribe(t *testing.T) {
	d := NewSyncMessageDispatcher()
	assert.Equal(t, 0, d.ConsumerCount())

	d.Subscribe(&recordingConsumer{name: "a"})
	d.Subscribe(MessageConsumerFunc(func(ctx context.Context, m Message) error { return nil }))

	assert.Equal(t, 2, d.ConsumerCount())
}

func TestLoggingConsumer_Handle(t *testing.T) {
	t.Run("never fails", func(t *testing.T) {
		c := NewLoggingConsumer(zap.NewNop())
		assert.NoError(t, c.Handle(context.Background(), NewMessage("order-1", OrderPlaced{})))
	})

	t.Run("nil logger defaults to nop", func(t *testing.T) {
		c := NewLoggingConsumer(nil)
		assert.NoError(t, c.Handle(context.Background(), NewMessage("order-1", OrderPlaced{})))
	})
}
