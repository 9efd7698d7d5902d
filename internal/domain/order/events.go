package order

// Inbound stream event names, as emitted by the backend.
const (
	EventOrderCreated      = "orderCreated"
	EventNotification      = "notification"
	EventOrderUpdateServer = "order-update-server" // legacy alias for a generic order mutation
	EventKitchenStatus     = "kitchenStatus"
	EventDisconnect        = "disconnect"
)

// Outbound stream event names. Fire-and-forget, no acknowledgment contract.
const (
	EventOrderUpdate       = "order-update"
	EventOrderNotification = "orderNotification"
)

// OrderCreated is the payload of an orderCreated event.
type OrderCreated struct {
	Order Order `json:"order"`
}

// NotificationMessage is the payload of a notification event. The backend
// sends an arbitrary human-readable message.
type NotificationMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// KitchenStatusChanged is the payload of a kitchenStatus event.
type KitchenStatusChanged struct {
	Status bool `json:"status"`
}
