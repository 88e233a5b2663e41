package kafka

import (
	"time"

	"northwind/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents = "northwind.order.events"
)

// OrderEvent — wire-формат события жизненного цикла заказа.
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    int       `json:"order_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderEvent переводит доменное событие в wire-формат.
func NewOrderEvent(event domain.LifecycleEvent) *OrderEvent {
	return &OrderEvent{
		EventID:    event.ID,
		EventType:  event.Type,
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
		State:      event.State.String(),
		OccurredAt: event.OccurredAt,
	}
}
