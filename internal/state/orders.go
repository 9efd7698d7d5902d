package state

import (
	"context"
	"log"
	"sync"

	"github.com/example/kitchen-console/internal/domain/order"
)

// OrdersAPI is the REST surface the store needs. Implemented by
// rest.Client; tests supply a recording mock.
type OrdersAPI interface {
	FetchOrders(ctx context.Context, kitchenID string) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
}

// OrderStore is the single source of truth for the kitchen's orders,
// refreshed wholesale from the backend. The pending subset is derived from
// the order list on every mutation and is never mutable on its own.
type OrderStore struct {
	api       OrdersAPI
	kitchenID string

	mu      sync.RWMutex
	orders  []order.Order
	pending []order.Order
}

func NewOrderStore(api OrdersAPI, kitchenID string) *OrderStore {
	return &OrderStore{api: api, kitchenID: kitchenID}
}

// FetchAll replaces the entire order list with the backend's. On failure
// the store keeps its previous contents; there is no partial overwrite.
// Concurrent refreshes are not coalesced: the last response to resolve
// determines the final contents.
func (s *OrderStore) FetchAll(ctx context.Context) error {
	orders, err := s.api.FetchOrders(ctx, s.kitchenID)
	if err != nil {
		log.Printf("[OrderStore] Refresh failed, keeping stale orders: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.pending = filterPending(orders)
	return nil
}

// UpdateStatus writes a status transition to the backend. The cached
// order's transition table is checked first: a terminal order never issues
// the PUT, keeping transitions one-directional on this side too. Nothing
// is applied optimistically: local state changes only from the order
// object the server returns. On failure the local entry is left untouched
// and the error goes back to the caller.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	cached, ok := s.Get(orderID)
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if !cached.CanTransitionTo(status) {
		return nil, cached.TransitionError(status)
	}

	updated, err := s.api.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.orders {
		if s.orders[i].OrderID == updated.OrderID {
			s.orders[i] = *updated
			found = true
			break
		}
	}
	if !found {
		// The server answered with an order the cache has not seen, re-keyed
		// or otherwise; keep it rather than waiting for the next refresh.
		s.orders = append(s.orders, *updated)
	}
	s.pending = filterPending(s.orders)
	return updated, nil
}

// Orders returns a copy of the full order list.
func (s *OrderStore) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Pending returns a copy of the derived pending subset.
func (s *OrderStore) Pending() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.pending))
	copy(out, s.pending)
	return out
}

// Get looks up a single order by id.
func (s *OrderStore) Get(orderID string) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return order.Order{}, false
}

func filterPending(orders []order.Order) []order.Order {
	pending := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsPending() {
			pending = append(pending, o)
		}
	}
	return pending
}
