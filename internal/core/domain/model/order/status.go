package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> ReadyForPickup ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	   │              │               │            │             │
//	   └──────────────┴──> Cancelled <┴────────────┴─────────────┘
//	                                  │            │             │
//	                                  └────> DeliveryFailed <────┘
//
// Delivered, DeliveryFailed and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status; the restaurant has not finished preparing.
	Pending

	// ReadyForPickup orders are visible to workers and can be claimed.
	ReadyForPickup

	// Assigned orders have exactly one worker.
	Assigned

	// PickedUp means the worker collected the order at the restaurant.
	PickedUp

	// InTransit means the worker is on the way to the customer.
	InTransit

	// Delivered is terminal and triggers settlement.
	Delivered

	// DeliveryFailed is terminal and carries a failure reason.
	DeliveryFailed

	// Cancelled is terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Pending:        "pending",
		ReadyForPickup: "ready_for_pickup",
		Assigned:       "assigned",
		PickedUp:       "picked_up",
		InTransit:      "in_transit",
		Delivered:      "delivered",
		DeliveryFailed: "delivery_failed",
		Cancelled:      "cancelled",
	}
}

// getAllowedSources maps each target status to the statuses it may be entered from.
func getAllowedSources() map[Status][]Status {
	//nolint:exhaustive // Unknown and Pending are never targets
	return map[Status][]Status{
		ReadyForPickup: {Pending},
		Assigned:       {ReadyForPickup},
		PickedUp:       {Assigned},
		InTransit:      {PickedUp},
		Delivered:      {InTransit},
		DeliveryFailed: {Assigned, PickedUp, InTransit},
		Cancelled:      {Pending, ReadyForPickup, Assigned, PickedUp, InTransit},
	}
}

// ParseStatus converts the persisted or wire name of a status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// MarshalText renders the wire name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == DeliveryFailed || s == Cancelled
}

// RequiresWorker reports whether an order in this status must have a worker.
func (s Status) RequiresWorker() bool {
	return s == Assigned || s == PickedUp || s == InTransit || s == Delivered
}

// CanTransitionTo reports whether the transition table contains s -> to.
func (s Status) CanTransitionTo(to Status) bool {
	for _, from := range getAllowedSources()[to] {
		if from == s {
			return true
		}
	}
	return false
}

// AllowedSources lists the statuses a transition into s may start from.
func (s Status) AllowedSources() []Status {
	sources := getAllowedSources()[s]
	out := make([]Status, len(sources))
	copy(out, sources)
	return out
}

// ValidateCanHaveWorker checks the worker/status consistency rule: a worker is
// present exactly when the status requires one.
func (s Status) ValidateCanHaveWorker(hasWorker bool) error {
	if hasWorker && !s.RequiresWorker() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a worker", s),
		)
	}
	if !hasWorker && s.RequiresWorker() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no worker", s),
		)
	}
	return nil
}

// PaymentStatus tracks the payment processor's view of an order.
//
//	Pending ──> Paid ──> Refunded
//	   │
//	   └──> Failed
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentFailed:   "failed",
		PaymentRefunded: "refunded",
	}
}

// ParsePaymentStatus converts the persisted name of a payment status.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status is invalid",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

func (p PaymentStatus) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// source returns the only status a payment status may be entered from.
func (p PaymentStatus) source() PaymentStatus {
	switch p {
	case PaymentPaid, PaymentFailed:
		return PaymentPending
	case PaymentRefunded:
		return PaymentPaid
	default:
		return PaymentUnknown
	}
}
