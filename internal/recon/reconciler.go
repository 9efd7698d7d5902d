package recon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/kitchen-console/internal/domain/order"
	"github.com/example/kitchen-console/internal/infrastructure/stream"
	"github.com/example/kitchen-console/internal/sound"
	"github.com/example/kitchen-console/internal/state"
)

// ErrStopped is returned when a reconciler is started after Stop. Each
// session gets exactly one reconciler lifetime.
var ErrStopped = errors.New("reconciler already stopped")

type lifecycle int

const (
	stateUninitialized lifecycle = iota
	stateRunning
	stateStopped
)

// Reconciler binds stream activity to order-store refreshes and
// notification-queue updates. It owns the connection lifecycle: Start
// attaches listeners exactly once per session no matter how often it is
// called, and Stop detaches them idempotently.
type Reconciler struct {
	source        stream.Source
	store         *state.OrderStore
	notifications *state.NotificationQueue
	kitchen       *state.KitchenState
	alerter       sound.Alerter

	mu     sync.Mutex
	state  lifecycle
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReconciler(
	source stream.Source,
	store *state.OrderStore,
	notifications *state.NotificationQueue,
	kitchen *state.KitchenState,
	alerter sound.Alerter,
) *Reconciler {
	if alerter == nil {
		alerter = sound.Silent{}
	}
	return &Reconciler{
		source:        source,
		store:         store,
		notifications: notifications,
		kitchen:       kitchen,
		alerter:       alerter,
	}
}

// Start attaches the event listeners. Calling Start on a running
// reconciler is a no-op; calling it after Stop fails.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateRunning:
		return nil
	case stateStopped:
		return ErrStopped
	}

	listenCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.state = stateRunning

	go func() {
		defer close(r.done)
		if err := r.source.Listen(listenCtx, r.handleEvent); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[Recon] Listener stopped: %v", err)
		}
	}()

	log.Printf("[Recon] Started")
	return nil
}

// Stop detaches all listeners and waits for the listen loop to exit. Safe
// to call more than once.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.state != stateRunning {
		r.state = stateStopped
		r.mu.Unlock()
		return
	}
	r.state = stateStopped
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done
	log.Printf("[Recon] Stopped")
}

// Running reports whether listeners are attached.
func (r *Reconciler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRunning
}

func (r *Reconciler) handleEvent(ctx context.Context, evt stream.Event) error {
	switch evt.Name {
	case order.EventOrderCreated:
		return r.handleOrderCreated(ctx, evt)
	case order.EventNotification:
		return r.handleNotification(evt)
	case order.EventOrderUpdateServer:
		r.refresh(ctx)
		return nil
	case order.EventKitchenStatus:
		return r.handleKitchenStatus(evt)
	case order.EventDisconnect:
		log.Printf("[Recon] Disconnected: %s", string(evt.Data))
		return nil
	default:
		log.Printf("[Recon] Ignoring unknown event: %s", evt.Name)
		return nil
	}
}

func (r *Reconciler) handleOrderCreated(ctx context.Context, evt stream.Event) error {
	var e order.OrderCreated
	if err := json.Unmarshal(evt.Data, &e); err != nil {
		log.Printf("[Recon] Failed to unmarshal orderCreated event: %v", err)
		return err
	}

	message := fmt.Sprintf("New order from %s (cabin %s)", e.Order.UserFullName, e.Order.CabinName)
	r.notifications.Append("order", message)
	r.alert()

	r.refresh(ctx)
	return nil
}

func (r *Reconciler) handleNotification(evt stream.Event) error {
	var e order.NotificationMessage
	if err := json.Unmarshal(evt.Data, &e); err != nil {
		// The backend also sends bare string payloads on this event
		var msg string
		if err := json.Unmarshal(evt.Data, &msg); err != nil {
			log.Printf("[Recon] Failed to unmarshal notification event: %v", err)
			return err
		}
		e = order.NotificationMessage{Type: "notification", Data: msg}
	} else if e.Type == "" {
		e.Type = "notification"
	}

	r.notifications.Append(e.Type, e.Data)
	r.alert()
	return nil
}

func (r *Reconciler) handleKitchenStatus(evt stream.Event) error {
	var e order.KitchenStatusChanged
	if err := json.Unmarshal(evt.Data, &e); err != nil {
		// Bare boolean payload
		var status bool
		if err := json.Unmarshal(evt.Data, &status); err != nil {
			log.Printf("[Recon] Failed to unmarshal kitchenStatus event: %v", err)
			return err
		}
		e = order.KitchenStatusChanged{Status: status}
	}

	r.kitchen.Set(e.Status)
	log.Printf("[Recon] Kitchen status set to online=%t", e.Status)
	return nil
}

// refresh re-fetches the whole order list in the background. Refreshes are
// deliberately not coalesced: bursts of events cause redundant fetches and
// the last response to resolve wins. A refresh resolving after Stop fails
// on the cancelled context and is discarded here.
func (r *Reconciler) refresh(ctx context.Context) {
	go func() {
		if err := r.store.FetchAll(ctx); err != nil {
			log.Printf("[Recon] Background refresh failed: %v", err)
		}
	}()
}

// alert never propagates: playback failure degrades to a log line.
func (r *Reconciler) alert() {
	if err := r.alerter.Alert(); err != nil {
		log.Printf("[Recon] Alert failed: %v", err)
	}
}
