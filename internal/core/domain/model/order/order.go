package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrAlreadyClaimed is returned when a claim loses: another worker won, or the
	// order left ready_for_pickup before the claim was written.
	ErrAlreadyClaimed = errors.New("order already claimed")
)

// Order is the aggregate root of the fulfillment lifecycle. It owns the status,
// the worker assignment and the amounts fixed at finalization.
//
// Order follows these invariants:
//   - worker is set if and only if the status is assigned, picked_up, in_transit or delivered
//   - each lifecycle timestamp is set once, on the transition it names, and never overwritten
//   - statuses only move along the transition table (see Status)
//   - delivery_failed always carries a non-empty failure reason
//
// Every mutation returns the audit Transition and raises a StatusChanged event.
// The persisted status check happens again in the repository as a conditional write.
type Order struct {
	kernel.EventRecorder

	id            kernel.UUID
	customerID    kernel.UUID
	restaurantID  kernel.UUID
	workerID      *kernel.UUID
	status        Status
	pricing       Pricing
	paymentStatus PaymentStatus
	failureReason string
	cancelReason  string

	createdAt   time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time
	failedAt    *time.Time

	guard guard.ConstructorGuard
}

// State is the full persisted shape of an order, used by repositories to
// restore the aggregate and to map it to storage.
type State struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	RestaurantID  kernel.UUID
	WorkerID      *kernel.UUID
	Status        Status
	Pricing       Pricing
	PaymentStatus PaymentStatus
	FailureReason string
	CancelReason  string
	CreatedAt     time.Time
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	FailedAt      *time.Time
}

// NewOrder creates a pending order with a pending payment.
//
// Example:
//
//	pricing, _ := order.NewPricing(total, discount, tip, "SAVE10")
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, pricing, time.Now())
func NewOrder(id, customerID, restaurantID kernel.UUID, pricing Pricing, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		pricing:       pricing,
		createdAt:     createdAt.UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		setParty("customer_id", &o.customerID, customerID),
		setParty("restaurant_id", &o.restaurantID, restaurantID),
	); err != nil {
		return nil, err
	}

	o.Raise(Created{
		ID:           kernel.NewUUID(),
		OrderID:      o.id,
		CustomerID:   o.customerID,
		RestaurantID: o.restaurantID,
		TotalAmount:  pricing.Total(),
		At:           o.createdAt,
	})
	return o, nil
}

// RestoreOrder rebuilds an order from persistence and re-checks the invariants
// that do not depend on history.
func RestoreOrder(state State) (*Order, error) {
	o := &Order{
		workerID:      state.WorkerID,
		pricing:       state.Pricing,
		failureReason: state.FailureReason,
		cancelReason:  state.CancelReason,
		createdAt:     state.CreatedAt,
		assignedAt:    state.AssignedAt,
		pickedUpAt:    state.PickedUpAt,
		deliveredAt:   state.DeliveredAt,
		cancelledAt:   state.CancelledAt,
		failedAt:      state.FailedAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(state.ID),
		setParty("customer_id", &o.customerID, state.CustomerID),
		setParty("restaurant_id", &o.restaurantID, state.RestaurantID),
		o.setStatus(state.Status, state.WorkerID != nil),
		o.setPaymentStatus(state.PaymentStatus),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Worker returns the assigned worker, nil when unassigned.
func (o *Order) Worker() *kernel.UUID {
	return o.workerID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Pricing() Pricing {
	return o.pricing
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Snapshot returns the full state for persistence.
func (o *Order) Snapshot() State {
	return State{
		ID:            o.id,
		CustomerID:    o.customerID,
		RestaurantID:  o.restaurantID,
		WorkerID:      o.workerID,
		Status:        o.status,
		Pricing:       o.pricing,
		PaymentStatus: o.paymentStatus,
		FailureReason: o.failureReason,
		CancelReason:  o.cancelReason,
		CreatedAt:     o.createdAt,
		AssignedAt:    o.assignedAt,
		PickedUpAt:    o.pickedUpAt,
		DeliveredAt:   o.deliveredAt,
		CancelledAt:   o.cancelledAt,
		FailedAt:      o.failedAt,
	}
}

// Assign gives a ready_for_pickup order to a worker. It is the only way into
// Assigned; the repository repeats the check as a conditional write so that
// concurrent claims have exactly one winner.
//
// Returns:
//   - the audit Transition on success
//   - ErrAlreadyClaimed if the order is not claimable any more
//   - a validation error if workerID is invalid
func (o *Order) Assign(workerID kernel.UUID, at time.Time) (Transition, error) {
	if err := workerID.Validate(); err != nil {
		return Transition{}, errs.NewValueIsRequiredErrorWithCause("worker_id", err)
	}
	if o.status != ReadyForPickup || o.workerID != nil {
		return Transition{}, ErrAlreadyClaimed
	}

	actor := Actor{id: workerID, role: RoleWorker}
	return o.apply(Assigned, actor, "", at), nil
}

// Transition moves the order to status to on behalf of actor.
//
// Rules:
//   - the current status must allow to, otherwise StaleStateError
//   - ready_for_pickup: the order's restaurant or an administrator
//   - picked_up, in_transit, delivered: the assigned worker only
//   - cancelled: the order's customer while pending or ready_for_pickup, an administrator from any non-terminal status
//   - delivery_failed: the assigned worker or a partner, with a non-empty reason
//
// Not permitted actors get ErrActorNotPermitted. Nothing is mutated on error.
func (o *Order) Transition(to Status, actor Actor, reason string, at time.Time) (Transition, error) {
	if err := to.Validate(); err != nil {
		return Transition{}, err
	}
	if !o.status.CanTransitionTo(to) {
		return Transition{}, o.staleError(to)
	}
	if !o.permits(actor, to) {
		return Transition{}, newActorNotPermittedError(actor, to)
	}

	reason = strings.TrimSpace(reason)
	if to == DeliveryFailed && reason == "" {
		return Transition{}, errs.NewValueIsRequiredError("reason")
	}

	return o.apply(to, actor, reason, at), nil
}

// ApplyPaymentOutcome moves the payment status. It reports false without error
// when the target status already holds, so webhook redeliveries are no-ops.
func (o *Order) ApplyPaymentOutcome(to PaymentStatus, at time.Time) (bool, error) {
	if o.paymentStatus == to {
		return false, nil
	}
	if to.source() == PaymentUnknown || to.source() != o.paymentStatus {
		return false, errs.NewStaleStateError("order", o.id.String(), "payment "+to.source().String())
	}

	from := o.paymentStatus
	o.paymentStatus = to
	o.Raise(PaymentStatusChanged{
		ID:      kernel.NewUUID(),
		OrderID: o.id,
		From:    from,
		To:      to,
		At:      at.UTC(),
	})
	return true, nil
}

func (o *Order) permits(actor Actor, to Status) bool {
	switch actor.role {
	case RoleAdministrator:
		return to == ReadyForPickup || to == Cancelled
	case RoleRestaurant:
		return to == ReadyForPickup && actor.is(RoleRestaurant, o.restaurantID)
	case RoleCustomer:
		return to == Cancelled &&
			(o.status == Pending || o.status == ReadyForPickup) &&
			actor.is(RoleCustomer, o.customerID)
	case RoleWorker:
		if o.workerID == nil || !actor.is(RoleWorker, *o.workerID) {
			return false
		}
		return to == PickedUp || to == InTransit || to == Delivered || to == DeliveryFailed
	case RolePartner:
		return to == DeliveryFailed
	default:
		return false
	}
}

func (o *Order) apply(to Status, actor Actor, reason string, at time.Time) Transition {
	at = at.UTC()
	transition := Transition{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		From:       o.status,
		To:         to,
		ActorRole:  actor.role,
		Reason:     reason,
		OccurredAt: at,
	}
	if id, ok := actor.ID(); ok {
		transition.ActorID = &id
	}

	switch to {
	case Assigned:
		workerID := actor.id
		o.workerID = &workerID
		setOnce(&o.assignedAt, at)
	case PickedUp:
		setOnce(&o.pickedUpAt, at)
	case Delivered:
		setOnce(&o.deliveredAt, at)
	case DeliveryFailed:
		o.workerID = nil
		o.failureReason = reason
		setOnce(&o.failedAt, at)
	case Cancelled:
		o.workerID = nil
		o.cancelReason = reason
		setOnce(&o.cancelledAt, at)
	default:
	}

	o.status = to
	o.Raise(StatusChanged{ID: kernel.NewUUID(), Transition: transition})
	return transition
}

func (o *Order) staleError(to Status) error {
	sources := to.AllowedSources()
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.String())
	}
	expected := strings.Join(names, "|")
	if expected == "" {
		expected = "none"
	}
	return errs.NewStaleStateErrorWithCause(
		"order",
		o.id.String(),
		expected,
		fmt.Errorf("cannot move from %s to %s", o.status, to),
	)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status, hasWorker bool) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveWorker(hasWorker); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setPaymentStatus(status PaymentStatus) error {
	if _, ok := getPaymentStatusStrings()[status]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("%d is not valid", status))
	}
	o.paymentStatus = status
	return nil
}

func setParty(param string, dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	*dst = id
	return nil
}

func setOnce(dst **time.Time, at time.Time) {
	if *dst == nil {
		*dst = &at
	}
}
