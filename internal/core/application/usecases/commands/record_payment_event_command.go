package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordPaymentEventCommandIsNotConstructed = errors.New(
	"RecordPaymentEventCommand must be created via NewRecordPaymentEventCommand constructor",
)

// PaymentEventType is the kind of event the payment processor reports.
type PaymentEventType string

const (
	// OrderPaymentEvent reports a charge outcome: succeeded, failed or refunded.
	OrderPaymentEvent PaymentEventType = "order.payment"
	// PayoutStatusEvent reports a transfer outcome: processing, completed or failed.
	PayoutStatusEvent PaymentEventType = "payout.status"
)

// RecordPaymentEventCommand carries one payment processor webhook event.
type RecordPaymentEventCommand struct { //nolint:recvcheck //using for validation
	eventType     PaymentEventType
	targetID      kernel.UUID
	paymentStatus order.PaymentStatus
	payoutStatus  payout.Status
	reason        string
	railReference string

	guard guard.ConstructorGuard
}

// NewRecordPaymentEventCommand maps the processor's outcome vocabulary onto the
// order payment status or the payout status. targetID is the order id for
// order.payment events and the payout id for payout.status events.
func NewRecordPaymentEventCommand(
	eventType PaymentEventType,
	targetID kernel.UUID,
	outcome, reason, railReference string,
) (RecordPaymentEventCommand, error) {
	cmd := RecordPaymentEventCommand{
		eventType:     eventType,
		reason:        strings.TrimSpace(reason),
		railReference: strings.TrimSpace(railReference),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("target_id", &cmd.targetID, targetID),
		cmd.setOutcome(outcome),
	); err != nil {
		return RecordPaymentEventCommand{}, err
	}

	return cmd, nil
}

func (c RecordPaymentEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentEventCommandIsNotConstructed)
}

func (c RecordPaymentEventCommand) EventType() PaymentEventType        { return c.eventType }
func (c RecordPaymentEventCommand) TargetID() kernel.UUID              { return c.targetID }
func (c RecordPaymentEventCommand) PaymentStatus() order.PaymentStatus { return c.paymentStatus }
func (c RecordPaymentEventCommand) PayoutStatus() payout.Status        { return c.payoutStatus }
func (c RecordPaymentEventCommand) Reason() string                     { return c.reason }
func (c RecordPaymentEventCommand) RailReference() string              { return c.railReference }

func (c *RecordPaymentEventCommand) setOutcome(outcome string) error {
	switch c.eventType {
	case OrderPaymentEvent:
		statuses := map[string]order.PaymentStatus{
			"succeeded": order.PaymentPaid,
			"failed":    order.PaymentFailed,
			"refunded":  order.PaymentRefunded,
		}
		status, ok := statuses[outcome]
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%q is not an order payment outcome", outcome))
		}
		c.paymentStatus = status
	case PayoutStatusEvent:
		status, err := payout.ParseStatus(outcome)
		if err != nil || status == payout.Pending {
			return errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%q is not a payout outcome", outcome))
		}
		c.payoutStatus = status
	default:
		return errs.NewValueIsInvalidErrorWithCause("event_type", fmt.Errorf("%q is not supported", c.eventType))
	}
	return nil
}
