package order

import "time"

// OrderCreatedEvent is emitted after an order is persisted. Subscribers
// (audit logging, future read models) must tolerate at-most-once delivery:
// publication is best-effort and never fails the creation pipeline.
type OrderCreatedEvent struct {
	OrderID    string
	Title      string
	Author     string
	ISBN       string
	Category   Category
	OccurredAt time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		Title:      o.Title,
		Author:     o.Author,
		ISBN:       o.ISBN,
		Category:   o.Category,
		OccurredAt: time.Now().UTC(),
	}
}
