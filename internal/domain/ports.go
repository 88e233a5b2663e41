package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderSubmitted = "order.submitted"
	EventOrderCompleted = "order.completed"
	EventOrderDeleted   = "order.deleted"
)

// LifecycleEvent — событие жизненного цикла заказа для внешних потребителей.
type LifecycleEvent struct {
	ID         string
	Type       string
	OrderID    int
	CustomerID string
	State      OrderState
	OccurredAt time.Time
}

// EventPublisher публикует события жизненного цикла наружу;
// реализация должна переживать повторную доставку.
type EventPublisher interface {
	Publish(event LifecycleEvent) error
}
