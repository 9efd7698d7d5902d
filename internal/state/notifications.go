package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is one transient user-facing notice.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// NotificationQueue is the session-scoped inbox of event-driven notices.
// Insertion order is preserved and duplicates are not suppressed: repeated
// identical events produce repeated entries. There is no size cap and no
// persistence; the queue dies with the session.
type NotificationQueue struct {
	mu    sync.Mutex
	items []Notification
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{}
}

// Append pushes a notice to the end of the queue.
func (q *NotificationQueue) Append(kind, message string) Notification {
	n := Notification{
		ID:         uuid.New().String(),
		Type:       kind,
		Message:    message,
		ReceivedAt: time.Now(),
	}
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
	return n
}

// All returns a copy of the queue, oldest first.
func (q *NotificationQueue) All() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len reports the current queue size.
func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue as a unit. Acknowledgment is all-or-nothing;
// there is no per-item dismissal.
func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
