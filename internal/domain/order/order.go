package order

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status transition")
	ErrOrderCompleted = errors.New("order is already completed")
	ErrOrderCancelled = errors.New("order is already cancelled")
)

// validTransitions defines allowed state transitions. The client never
// reverses a transition: pending is the only non-terminal state.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {}, // terminal state
	StatusCancelled: {}, // terminal state
}

// Item is a single line of an order.
type Item struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

// Order mirrors the backend's order document. The client only ever reads
// orders wholesale or writes a status transition; it never deletes.
type Order struct {
	OrderID              string     `json:"orderId"`
	UserID               string     `json:"userId"`
	UserFullName         string     `json:"userFullName"`
	UserPhoneNumber      string     `json:"userPhoneNumber"`
	Items                []Item     `json:"items"`
	TotalPrice           int        `json:"totalPrice"`
	Status               Status     `json:"status"`
	OrderedAt            time.Time  `json:"orderedAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	TotalPreparationTime int        `json:"totalPreparationTime"` // minutes
	CabinName            string     `json:"cabinName"`
	ExtraInfo            string     `json:"extraInfo,omitempty"`
	SpecialInstructions  string     `json:"specialInstructions,omitempty"`
}

// IsPending reports whether the order still needs kitchen work.
func (o *Order) IsPending() bool { return o.Status == StatusPending }

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionError returns an appropriate error for an invalid transition.
func (o *Order) TransitionError(target Status) error {
	switch o.Status {
	case StatusCompleted:
		return ErrOrderCompleted
	case StatusCancelled:
		return ErrOrderCancelled
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

// PreparationSeconds converts the quoted preparation time into the
// countdown's starting budget.
func (o *Order) PreparationSeconds() int {
	return o.TotalPreparationTime * 60
}
