package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/kitchen-console/internal/countdown"
	"github.com/example/kitchen-console/internal/domain/order"
	"github.com/example/kitchen-console/internal/infrastructure/stream"
	"github.com/example/kitchen-console/internal/state"
)

// KitchenStatusWriter is the REST surface the toggle endpoint needs.
type KitchenStatusWriter interface {
	UpdateKitchenStatus(ctx context.Context, kitchenID string, status bool) (bool, error)
}

// Handlers is the local console surface standing in for the original UI:
// order board, notification inbox, kitchen status toggle.
type Handlers struct {
	kitchenID     string
	store         *state.OrderStore
	notifications *state.NotificationQueue
	kitchen       *state.KitchenState
	board         *countdown.Board
	statusAPI     KitchenStatusWriter
	source        stream.Source
}

func NewHandlers(
	kitchenID string,
	store *state.OrderStore,
	notifications *state.NotificationQueue,
	kitchen *state.KitchenState,
	board *countdown.Board,
	statusAPI KitchenStatusWriter,
	source stream.Source,
) *Handlers {
	return &Handlers{
		kitchenID:     kitchenID,
		store:         store,
		notifications: notifications,
		kitchen:       kitchen,
		board:         board,
		statusAPI:     statusAPI,
		source:        source,
	}
}

// GetStatus summarizes the console's view of the kitchen.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"kitchenId":     h.kitchenID,
		"online":        h.kitchen.Online(),
		"pendingOrders": len(h.store.Pending()),
		"notifications": h.notifications.Len(),
	})
}

// GetOrders returns the full cached order list.
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Orders())
}

// pendingView decorates a pending order with its countdown display state.
type pendingView struct {
	order.Order
	RemainingSeconds int             `json:"remainingSeconds"`
	Progress         float64         `json:"progress"`
	DisplayStatus    countdown.State `json:"displayStatus"`
}

// GetPendingOrders returns the order board: the derived pending subset
// plus each order's countdown. The displayStatus is the timer's local
// opinion; the authoritative status comes from the store.
func (h *Handlers) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	h.board.Sync()

	pending := h.store.Pending()
	views := make([]pendingView, 0, len(pending))
	for _, o := range pending {
		v := pendingView{Order: o, DisplayStatus: countdown.StateRunning}
		if timer, ok := h.board.Get(o.OrderID); ok {
			v.RemainingSeconds = timer.Remaining()
			v.Progress = timer.Progress()
			v.DisplayStatus = timer.State()
		}
		views = append(views, v)
	}
	respondJSON(w, http.StatusOK, views)
}

// Refresh re-fetches the order list on demand. This is the manual recovery
// path once the stream's reconnect budget is exhausted.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.FetchAll(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Orders refreshed"})
}

// GetNotifications returns the inbox, oldest first.
func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.notifications.All())
}

// AcknowledgeNotifications clears the whole inbox, mirroring the
// menu-close acknowledgment. No per-item dismissal.
func (h *Handlers) AcknowledgeNotifications(w http.ResponseWriter, r *http.Request) {
	h.notifications.Clear()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notifications cleared"})
}

// DelayOrder extends one pending order's countdown by five minutes.
// Display-only: the backend is not involved.
func (h *Handlers) DelayOrder(w http.ResponseWriter, r *http.Request) {
	orderID := orderIDParam(r)
	h.board.Sync()
	if !h.board.Delay(orderID) {
		http.Error(w, "Order not on the board", http.StatusNotFound)
		return
	}

	timer, _ := h.board.Get(orderID)
	respondJSON(w, http.StatusOK, map[string]any{
		"orderId":          orderID,
		"remainingSeconds": timer.Remaining(),
	})
}

// CompleteOrder forces the countdown to completed and writes the
// authoritative status transition. Write failures reach the caller with
// local state untouched.
func (h *Handlers) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := orderIDParam(r)

	updated, err := h.store.UpdateStatus(r.Context(), orderID, order.StatusCompleted)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, order.ErrOrderCompleted),
			errors.Is(err, order.ErrOrderCancelled),
			errors.Is(err, order.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	h.board.Complete(orderID)

	if err := h.source.Emit(r.Context(), order.EventOrderUpdate, "marking order as complete"); err != nil {
		log.Printf("[Console] Failed to emit order-update: %v", err)
	}
	if err := h.source.Emit(r.Context(), order.EventOrderNotification, map[string]string{
		"orderId": updated.OrderID,
		"userId":  updated.UserID,
		"message": "Your order is ready for pickup",
	}); err != nil {
		log.Printf("[Console] Failed to emit orderNotification: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{"order": updated})
}

// SetKitchenStatus toggles the online flag: REST write first, then local
// state from the server's answer, then a broadcast for other clients.
func (h *Handlers) SetKitchenStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status bool `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settled, err := h.statusAPI.UpdateKitchenStatus(r.Context(), h.kitchenID, body.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.kitchen.Set(settled)

	if err := h.source.Emit(r.Context(), order.EventKitchenStatus, settled); err != nil {
		log.Printf("[Console] Failed to emit kitchenStatus: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]bool{"status": settled})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
