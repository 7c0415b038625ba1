package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout or RestorePayout")

// Payout is a transfer owed to a recipient. The first recorded payload for a
// payout id is authoritative; later requests with the same id return it.
type Payout struct {
	kernel.EventRecorder

	id            kernel.UUID
	recipientID   kernel.UUID
	recipientType RecipientType
	amount        kernel.Money
	currency      string
	status        Status
	failureReason string
	orderID       *kernel.UUID
	railReference string
	createdAt     time.Time
	updatedAt     time.Time

	guard guard.ConstructorGuard
}

// State is the persisted shape of a payout.
type State struct {
	ID            kernel.UUID
	RecipientID   kernel.UUID
	RecipientType RecipientType
	Amount        kernel.Money
	Currency      string
	Status        Status
	FailureReason string
	OrderID       *kernel.UUID
	RailReference string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayout creates a pending payout.
//
// Validation rules:
//   - payout and recipient ids are valid
//   - recipient type is restaurant or worker
//   - amount is strictly positive
//   - currency is a three-letter ISO 4217 code
func NewPayout(
	id, recipientID kernel.UUID,
	recipientType RecipientType,
	amount kernel.Money,
	currency string,
	orderID *kernel.UUID,
	now time.Time,
) (*Payout, error) {
	now = now.UTC()
	p := &Payout{
		status:    Pending,
		orderID:   orderID,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setRecipient(recipientID, recipientType),
		p.setAmount(amount),
		p.setCurrency(currency),
	); err != nil {
		return nil, err
	}

	p.Raise(Requested{
		ID:            kernel.NewUUID(),
		PayoutID:      p.id,
		RecipientID:   p.recipientID,
		RecipientType: p.recipientType,
		Amount:        p.amount,
		Currency:      p.currency,
		OrderID:       p.orderID,
		At:            now,
	})
	return p, nil
}

// RestorePayout rebuilds a payout from persistence.
func RestorePayout(state State) (*Payout, error) {
	p := &Payout{
		amount:        state.Amount,
		currency:      state.Currency,
		failureReason: state.FailureReason,
		orderID:       state.OrderID,
		railReference: state.RailReference,
		createdAt:     state.CreatedAt,
		updatedAt:     state.UpdatedAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(state.ID),
		p.setRecipient(state.RecipientID, state.RecipientType),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}
	p.status = state.Status
	return p, nil
}

func (p *Payout) Validate() error {
	if p == nil {
		return ErrPayoutIsNotConstructed
	}
	return p.guard.Validate(ErrPayoutIsNotConstructed)
}

func (p *Payout) ID() kernel.UUID {
	return p.id
}

func (p *Payout) Status() Status {
	return p.status
}

func (p *Payout) Amount() kernel.Money {
	return p.amount
}

func (p *Payout) Snapshot() State {
	return State{
		ID:            p.id,
		RecipientID:   p.recipientID,
		RecipientType: p.recipientType,
		Amount:        p.amount,
		Currency:      p.currency,
		Status:        p.status,
		FailureReason: p.failureReason,
		OrderID:       p.orderID,
		RailReference: p.railReference,
		CreatedAt:     p.createdAt,
		UpdatedAt:     p.updatedAt,
	}
}

// MarkProcessing records that the payout was handed to the payment rail.
func (p *Payout) MarkProcessing(at time.Time) (bool, error) {
	return p.moveTo(Processing, "", "", at)
}

// MarkCompleted records the rail's confirmation. railReference may be empty.
func (p *Payout) MarkCompleted(railReference string, at time.Time) (bool, error) {
	return p.moveTo(Completed, "", railReference, at)
}

// MarkFailed records a rejection. A reason is required.
func (p *Payout) MarkFailed(reason string, at time.Time) (bool, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, errs.NewValueIsRequiredError("failure reason")
	}
	return p.moveTo(Failed, reason, "", at)
}

// RecordRailReference stores the identifier the rail returned on submission.
// Only processing payouts accept it.
func (p *Payout) RecordRailReference(railReference string, at time.Time) error {
	railReference = strings.TrimSpace(railReference)
	if railReference == "" {
		return errs.NewValueIsRequiredError("rail reference")
	}
	if p.status != Processing {
		return errs.NewStaleStateError("payout", p.id.String(), Processing.String())
	}
	p.railReference = railReference
	p.updatedAt = at.UTC()
	return nil
}

// moveTo applies a status change. It reports false without error when the
// payout already holds the target status.
func (p *Payout) moveTo(to Status, reason, railReference string, at time.Time) (bool, error) {
	if p.status == to {
		return false, nil
	}
	if !p.status.CanTransitionTo(to) {
		return false, errs.NewStaleStateErrorWithCause(
			"payout",
			p.id.String(),
			expectedBefore(to),
			fmt.Errorf("cannot move from %s to %s", p.status, to),
		)
	}

	from := p.status
	p.status = to
	p.updatedAt = at.UTC()
	if reason != "" {
		p.failureReason = reason
	}
	if railReference != "" {
		p.railReference = railReference
	}

	p.Raise(StatusChanged{
		ID:       kernel.NewUUID(),
		PayoutID: p.id,
		From:     from,
		To:       to,
		Reason:   reason,
		At:       p.updatedAt,
	})
	return true, nil
}

func expectedBefore(to Status) string {
	names := make([]string, 0, 2)
	for _, s := range []Status{Pending, Processing, Completed, Failed} {
		if s.CanTransitionTo(to) {
			names = append(names, s.String())
		}
	}
	return strings.Join(names, "|")
}

func (p *Payout) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("payout_id", err)
	}
	p.id = id
	return nil
}

func (p *Payout) setRecipient(id kernel.UUID, recipientType RecipientType) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipient_id", err)
	}
	if _, ok := getRecipientStrings()[recipientType]; !ok {
		return errs.NewValueIsInvalidError("recipient_type")
	}
	p.recipientID = id
	p.recipientType = recipientType
	return nil
}

func (p *Payout) setAmount(amount kernel.Money) error {
	if amount.IsZero() {
		return errs.NewValueIsOutOfRangeError("amount", amount.String(), "0.01", "unbounded")
	}
	p.amount = amount
	return nil
}

func (p *Payout) setCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 || strings.Trim(currency, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	p.currency = currency
	return nil
}

// Requested is raised when a new payout is recorded.
type Requested struct {
	ID            kernel.UUID   `json:"event_id"`
	PayoutID      kernel.UUID   `json:"payout_id"`
	RecipientID   kernel.UUID   `json:"recipient_id"`
	RecipientType RecipientType `json:"recipient_type"`
	Amount        kernel.Money  `json:"amount"`
	Currency      string        `json:"currency"`
	OrderID       *kernel.UUID  `json:"order_id,omitempty"`
	At            time.Time     `json:"occurred_at"`
}

func (e Requested) EventID() kernel.UUID     { return e.ID }
func (e Requested) EventName() string        { return "payout.requested" }
func (e Requested) AggregateID() kernel.UUID { return e.PayoutID }
func (e Requested) OccurredAt() time.Time    { return e.At }

// StatusChanged is raised for every applied payout status change.
type StatusChanged struct {
	ID       kernel.UUID `json:"event_id"`
	PayoutID kernel.UUID `json:"payout_id"`
	From     Status      `json:"from"`
	To       Status      `json:"to"`
	Reason   string      `json:"reason,omitempty"`
	At       time.Time   `json:"occurred_at"`
}

func (e StatusChanged) EventID() kernel.UUID     { return e.ID }
func (e StatusChanged) EventName() string        { return "payout.status_changed" }
func (e StatusChanged) AggregateID() kernel.UUID { return e.PayoutID }
func (e StatusChanged) OccurredAt() time.Time    { return e.At }
