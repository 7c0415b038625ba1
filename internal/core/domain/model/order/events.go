package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Transition is the audit record of one applied status change.
type Transition struct {
	ID         kernel.UUID  `json:"id"`
	OrderID    kernel.UUID  `json:"order_id"`
	From       Status       `json:"from_status"`
	To         Status       `json:"to_status"`
	ActorID    *kernel.UUID `json:"actor_id,omitempty"`
	ActorRole  Role         `json:"actor_role"`
	Reason     string       `json:"reason,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Created is raised when a new order is accepted.
type Created struct {
	ID           kernel.UUID  `json:"event_id"`
	OrderID      kernel.UUID  `json:"order_id"`
	CustomerID   kernel.UUID  `json:"customer_id"`
	RestaurantID kernel.UUID  `json:"restaurant_id"`
	TotalAmount  kernel.Money `json:"total_amount"`
	At           time.Time    `json:"occurred_at"`
}

func (e Created) EventID() kernel.UUID     { return e.ID }
func (e Created) EventName() string        { return "order.created" }
func (e Created) AggregateID() kernel.UUID { return e.OrderID }
func (e Created) OccurredAt() time.Time    { return e.At }

// StatusChanged is raised for every applied transition, including claims.
type StatusChanged struct {
	ID         kernel.UUID `json:"event_id"`
	Transition Transition  `json:"transition"`
}

func (e StatusChanged) EventID() kernel.UUID     { return e.ID }
func (e StatusChanged) EventName() string        { return "order.status_changed" }
func (e StatusChanged) AggregateID() kernel.UUID { return e.Transition.OrderID }
func (e StatusChanged) OccurredAt() time.Time    { return e.Transition.OccurredAt }

// PaymentStatusChanged is raised when a payment webhook moves the payment status.
type PaymentStatusChanged struct {
	ID      kernel.UUID   `json:"event_id"`
	OrderID kernel.UUID   `json:"order_id"`
	From    PaymentStatus `json:"from"`
	To      PaymentStatus `json:"to"`
	At      time.Time     `json:"occurred_at"`
}

func (e PaymentStatusChanged) EventID() kernel.UUID     { return e.ID }
func (e PaymentStatusChanged) EventName() string        { return "order.payment_status_changed" }
func (e PaymentStatusChanged) AggregateID() kernel.UUID { return e.OrderID }
func (e PaymentStatusChanged) OccurredAt() time.Time    { return e.At }
