package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationQueue_AppendPreservesOrder(t *testing.T) {
	q := NewNotificationQueue()

	for i := 0; i < 5; i++ {
		q.Append("order", fmt.Sprintf("message %d", i))
	}

	items := q.All()
	require.Len(t, items, 5)
	for i, n := range items {
		assert.Equal(t, fmt.Sprintf("message %d", i), n.Message)
		assert.NotEmpty(t, n.ID)
	}
}

func TestNotificationQueue_DuplicatesAreNotSuppressed(t *testing.T) {
	q := NewNotificationQueue()

	q.Append("order", "same message")
	q.Append("order", "same message")
	q.Append("order", "same message")

	assert.Equal(t, 3, q.Len())
}

func TestNotificationQueue_ClearEmptiesRegardlessOfSize(t *testing.T) {
	for _, size := range []int{0, 1, 100} {
		q := NewNotificationQueue()
		for i := 0; i < size; i++ {
			q.Append("order", "msg")
		}

		q.Clear()

		assert.Equal(t, 0, q.Len())
		assert.Empty(t, q.All())
	}
}

func TestNotificationQueue_AllReturnsCopy(t *testing.T) {
	q := NewNotificationQueue()
	q.Append("order", "original")

	items := q.All()
	items[0].Message = "mutated"

	assert.Equal(t, "original", q.All()[0].Message)
}

func TestKitchenState_Toggle(t *testing.T) {
	k := NewKitchenState()
	assert.False(t, k.Online())

	k.Set(true)
	assert.True(t, k.Online())

	k.Set(false)
	assert.False(t, k.Online())
}
