package rehearse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedCommit(id AggregateRootID, expectedVersion int64, events ...interface{}) Commit {
	messages := make([]Message, len(events))
	for i, e := range events {
		messages[i] = NewMessage(id, e)
	}
	return NewCommit(id, expectedVersion, messages)
}

func TestInMemoryMessageRepository_Persist(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to history in order", func(t *testing.T) {
		repo := NewInMemoryMessageRepository()

		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 0, OrderPlaced{OrderID: "order-1"})))
		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 1, OrderShipped{Carrier: "ups"})))

		history, err := repo.Retrieve(ctx, "order-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, OrderPlaced{OrderID: "order-1"}, history[0].Event)
		assert.Equal(t, OrderShipped{Carrier: "ups"}, history[1].Event)
	})

	t.Run("keeps streams separate", func(t *testing.T) {
		repo := NewInMemoryMessageRepository()

		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 0, OrderPlaced{OrderID: "order-1"})))
		require.NoError(t, repo.Persist(ctx, placedCommit("order-2", 0, OrderPlaced{OrderID: "order-2"})))

		assert.Equal(t, 1, repo.HistorySize("order-1"))
		assert.Equal(t, 1, repo.HistorySize("order-2"))
	})

	t.Run("rejects invalid commits", func(t *testing.T) {
		repo := NewInMemoryMessageRepository()

		assert.ErrorIs(t, repo.Persist(ctx, placedCommit("", 0, OrderPlaced{})), ErrEmptyAggregateRootID)
		assert.ErrorIs(t, repo.Persist(ctx, placedCommit("order-1", 0)), ErrNoMessages)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		repo := NewInMemoryMessageRepository()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := repo.Persist(cancelled, placedCommit("order-1", 0, OrderPlaced{}))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInMemoryMessageRepository_LastCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMessageRepository()

	t.Run("empty before any persist", func(t *testing.T) {
		assert.Empty(t, repo.LastCommit())
	})

	t.Run("holds exactly the latest commit", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 0, OrderPlaced{OrderID: "order-1"})))
		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 1,
			OrderShipped{Carrier: "ups"}, OrderShipped{Carrier: "dhl"})))

		last := repo.LastCommit()
		require.Len(t, last, 2)
		assert.Equal(t, OrderShipped{Carrier: "ups"}, last[0].Event)
		assert.Equal(t, OrderShipped{Carrier: "dhl"}, last[1].Event)
	})

	t.Run("purge clears slot but not history", func(t *testing.T) {
		repo.PurgeLastCommit()

		assert.Empty(t, repo.LastCommit())
		assert.Equal(t, 3, repo.HistorySize("order-1"))
	})

	t.Run("slot refills on next persist", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 3, OrderShipped{Carrier: "fedex"})))

		last := repo.LastCommit()
		require.Len(t, last, 1)
		assert.Equal(t, OrderShipped{Carrier: "fedex"}, last[0].Event)
	})
}

func TestInMemoryMessageRepository_Retrieve(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMessageRepository()

	t.Run("unknown aggregate yields empty history", func(t *testing.T) {
		history, err := repo.Retrieve(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("empty ID is rejected", func(t *testing.T) {
		_, err := repo.Retrieve(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyAggregateRootID)
	})

	t.Run("returned history is a copy", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 0, OrderPlaced{OrderID: "order-1"})))

		history, err := repo.Retrieve(ctx, "order-1")
		require.NoError(t, err)
		history[0].Event = OrderPlaced{OrderID: "tampered"}

		fresh, err := repo.Retrieve(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, OrderPlaced{OrderID: "order-1"}, fresh[0].Event)
	})
}

func TestInMemoryMessageRepository_Reset(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMessageRepository()

	require.NoError(t, repo.Persist(ctx, placedCommit("order-1", 0, OrderPlaced{OrderID: "order-1"})))
	repo.Reset()

	assert.Empty(t, repo.LastCommit())
	assert.Equal(t, 0, repo.HistorySize("order-1"))
}
