package countdown

import (
	"testing"

	"github.com/example/kitchen-console/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_RunsDownToCompleted(t *testing.T) {
	timer := NewTimer("O1", 300)

	for i := 0; i < 300; i++ {
		assert.Equal(t, StateRunning, timer.State())
		timer.Tick()
	}

	assert.Equal(t, StateCompleted, timer.State())
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimer_FrozenAfterCompletion(t *testing.T) {
	timer := NewTimer("O1", 1)
	timer.Tick()
	require.Equal(t, StateCompleted, timer.State())

	timer.Tick()
	timer.Delay()

	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, StateCompleted, timer.State())
}

func TestTimer_DelayAddsExactlyFiveMinutes(t *testing.T) {
	timer := NewTimer("O1", 300)
	timer.Tick()
	before := timer.Remaining()

	timer.Delay()

	assert.Equal(t, before+300, timer.Remaining())
	assert.Equal(t, StateRunning, timer.State())
}

// A delayed timer's progress denominator stays the original preparation
// budget, so the ratio can exceed 1. That is the display's long-standing
// behavior; this test pins it.
func TestTimer_ProgressCanExceedOneAfterDelay(t *testing.T) {
	timer := NewTimer("O1", 300)
	timer.Delay()

	assert.Equal(t, 600, timer.Remaining())
	assert.InDelta(t, 2.0, timer.Progress(), 0.001)
}

func TestTimer_ProgressRunsFromOneToZero(t *testing.T) {
	timer := NewTimer("O1", 100)
	assert.InDelta(t, 1.0, timer.Progress(), 0.001)

	for i := 0; i < 50; i++ {
		timer.Tick()
	}
	assert.InDelta(t, 0.5, timer.Progress(), 0.001)

	for i := 0; i < 50; i++ {
		timer.Tick()
	}
	assert.InDelta(t, 0.0, timer.Progress(), 0.001)
}

func TestTimer_CompleteZeroesImmediately(t *testing.T) {
	timer := NewTimer("O1", 300)

	timer.Complete()

	assert.Equal(t, StateCompleted, timer.State())
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimer_ZeroBudgetStartsCompleted(t *testing.T) {
	timer := NewTimer("O1", 0)

	assert.Equal(t, StateCompleted, timer.State())
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, 0.0, timer.Progress())
}

// ============================================
// Board Tests
// ============================================

type staticPending struct {
	orders []order.Order
}

func (s *staticPending) Pending() []order.Order { return s.orders }

func pendingOrder(id string, prepMinutes int) order.Order {
	return order.Order{
		OrderID:              id,
		Status:               order.StatusPending,
		TotalPreparationTime: prepMinutes,
	}
}

func TestBoard_SyncCreatesAndDropsTimers(t *testing.T) {
	src := &staticPending{orders: []order.Order{
		pendingOrder("O1", 5),
		pendingOrder("O2", 10),
	}}
	board := NewBoard(src)

	board.Sync()
	assert.Equal(t, 2, board.Size())

	timer, ok := board.Get("O2")
	require.True(t, ok)
	assert.Equal(t, 600, timer.Remaining())

	// O1 left pending: its timer goes away, O2 keeps its clock
	src.orders = []order.Order{pendingOrder("O2", 10)}
	board.Sync()

	assert.Equal(t, 1, board.Size())
	_, ok = board.Get("O1")
	assert.False(t, ok)
}

func TestBoard_SyncKeepsExistingClock(t *testing.T) {
	src := &staticPending{orders: []order.Order{pendingOrder("O1", 5)}}
	board := NewBoard(src)
	board.Sync()

	board.TickAll()
	board.TickAll()
	board.Sync()

	timer, ok := board.Get("O1")
	require.True(t, ok)
	assert.Equal(t, 298, timer.Remaining())
}

func TestBoard_DelayAndCompleteUnknownOrder(t *testing.T) {
	board := NewBoard(&staticPending{})

	assert.False(t, board.Delay("nope"))
	assert.False(t, board.Complete("nope"))
}

func TestBoard_CompleteForcesTimer(t *testing.T) {
	src := &staticPending{orders: []order.Order{pendingOrder("O1", 5)}}
	board := NewBoard(src)
	board.Sync()

	require.True(t, board.Complete("O1"))

	timer, _ := board.Get("O1")
	assert.Equal(t, StateCompleted, timer.State())
	assert.Equal(t, 0, timer.Remaining())
}
