package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/example/kitchen-console/internal/domain/order"
)

// PendingLister is the slice of the order store the board watches.
type PendingLister interface {
	Pending() []order.Order
}

// Board owns one countdown timer per displayed pending order. Orders that
// leave the pending subset have their timers dropped; new pending orders
// get a fresh timer with their full preparation budget. Timers are never
// shared across board instances.
type Board struct {
	pending PendingLister

	mu     sync.Mutex
	timers map[string]*Timer
}

func NewBoard(pending PendingLister) *Board {
	return &Board{
		pending: pending,
		timers:  make(map[string]*Timer),
	}
}

// Run ticks every timer once per second until ctx is cancelled, syncing
// the timer set against the store's pending subset on each tick.
func (b *Board) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Sync()
			b.TickAll()
		}
	}
}

// Sync reconciles the timer set with the current pending orders.
func (b *Board) Sync() {
	pending := b.pending.Pending()

	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]bool, len(pending))
	for _, o := range pending {
		seen[o.OrderID] = true
		if _, ok := b.timers[o.OrderID]; !ok {
			b.timers[o.OrderID] = NewTimer(o.OrderID, o.PreparationSeconds())
		}
	}
	for id := range b.timers {
		if !seen[id] {
			delete(b.timers, id)
		}
	}
}

// TickAll advances every timer by one second.
func (b *Board) TickAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.timers {
		t.Tick()
	}
}

// Get returns the timer for an order, if it is on the board.
func (b *Board) Get(orderID string) (*Timer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.timers[orderID]
	return t, ok
}

// Delay extends one order's timer. Returns false if the order is not
// displayed.
func (b *Board) Delay(orderID string) bool {
	t, ok := b.Get(orderID)
	if !ok {
		return false
	}
	t.Delay()
	return true
}

// Complete forces one order's timer to completed. Returns false if the
// order is not displayed.
func (b *Board) Complete(orderID string) bool {
	t, ok := b.Get(orderID)
	if !ok {
		return false
	}
	t.Complete()
	return true
}

// Size reports how many timers are on the board.
func (b *Board) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}
