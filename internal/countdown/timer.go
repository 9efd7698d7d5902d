package countdown

import "sync"

type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// DelayExtension is the fixed bump a single Delay adds, in seconds.
const DelayExtension = 300

// Timer is the view-local ticking clock for one displayed order. It is
// purely presentational: reaching zero flips the displayed state to
// completed without touching the authoritative order status, which the
// next store refresh reconciles.
type Timer struct {
	mu sync.Mutex

	orderID   string
	initial   int
	remaining int
	state     State
}

// NewTimer starts a timer with the order's full preparation budget.
func NewTimer(orderID string, seconds int) *Timer {
	t := &Timer{
		orderID:   orderID,
		initial:   seconds,
		remaining: seconds,
		state:     StateRunning,
	}
	if seconds <= 0 {
		t.state = StateCompleted
		t.remaining = 0
	}
	return t
}

// Tick advances the clock by one second. Frozen once completed.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = StateCompleted
	}
}

// Delay extends the clock by DelayExtension seconds. Display-only, no
// server-side effect, and a no-op once completed.
func (t *Timer) Delay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return
	}
	t.remaining += DelayExtension
}

// Complete forces an immediate transition to completed and zeroes the
// clock. The caller is responsible for the authoritative status write.
func (t *Timer) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateCompleted
	t.remaining = 0
}

func (t *Timer) OrderID() string { return t.orderID }

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Progress is remaining over the original preparation budget. The
// denominator is never recalculated after a Delay, so the ratio can exceed
// 1 on a delayed order.
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initial <= 0 {
		return 0
	}
	return float64(t.remaining) / float64(t.initial)
}
