package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.GetOrders)
		r.Get("/pending", h.GetPendingOrders)
		r.Post("/{orderID}/delay", h.DelayOrder)
		r.Post("/{orderID}/complete", h.CompleteOrder)
	})

	r.Post("/refresh", h.Refresh)

	r.Get("/notifications", h.GetNotifications)
	r.Delete("/notifications", h.AcknowledgeNotifications)

	r.Post("/kitchen-status", h.SetKitchenStatus)

	return r
}

func orderIDParam(r *http.Request) string {
	return chi.URLParam(r, "orderID")
}
