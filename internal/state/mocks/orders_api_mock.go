package mocks

import (
	"context"
	"sync"

	"github.com/example/kitchen-console/internal/domain/order"
)

// MockOrdersAPI is a mock implementation of state.OrdersAPI for testing.
type MockOrdersAPI struct {
	mu sync.Mutex

	// Canned responses
	Orders       []order.Order
	FetchErr     error
	UpdatedOrder *order.Order
	UpdateErr    error

	// For tracking calls in tests
	FetchCalls  []FetchCall
	UpdateCalls []UpdateCall
}

// FetchCall records parameters passed to FetchOrders.
type FetchCall struct {
	KitchenID string
}

// UpdateCall records parameters passed to UpdateOrderStatus.
type UpdateCall struct {
	OrderID string
	Status  order.Status
}

// NewMockOrdersAPI creates a new MockOrdersAPI.
func NewMockOrdersAPI() *MockOrdersAPI {
	return &MockOrdersAPI{
		FetchCalls:  make([]FetchCall, 0),
		UpdateCalls: make([]UpdateCall, 0),
	}
}

func (m *MockOrdersAPI) FetchOrders(ctx context.Context, kitchenID string) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls = append(m.FetchCalls, FetchCall{KitchenID: kitchenID})

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := make([]order.Order, len(m.Orders))
	copy(out, m.Orders)
	return out, nil
}

func (m *MockOrdersAPI) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{OrderID: orderID, Status: status})

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if m.UpdatedOrder != nil {
		updated := *m.UpdatedOrder
		return &updated, nil
	}
	return &order.Order{OrderID: orderID, Status: status}, nil
}

// FetchCount reports how many refreshes were issued.
func (m *MockOrdersAPI) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}

// Reset clears canned responses and recorded calls.
func (m *MockOrdersAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = nil
	m.FetchErr = nil
	m.UpdatedOrder = nil
	m.UpdateErr = nil
	m.FetchCalls = make([]FetchCall, 0)
	m.UpdateCalls = make([]UpdateCall, 0)
}
