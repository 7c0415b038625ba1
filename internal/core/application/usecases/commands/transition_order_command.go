package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand or NewPartnerDeliveryCommand",
)

// TransitionOrderCommand requests a status change on behalf of an actor.
// Commands built with NewPartnerDeliveryCommand come from partner webhooks and
// tolerate redelivery: if the order already holds the target status the
// command succeeds without a write.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	to         order.Status
	actor      order.Actor
	reason     string
	replayable bool

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	to order.Status,
	actor order.Actor,
	reason string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		actor:  actor,
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("order_id", &cmd.orderID, orderID),
		to.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	cmd.to = to

	return cmd, nil
}

// NewPartnerDeliveryCommand builds the command behind partner delivery webhooks.
func NewPartnerDeliveryCommand(orderID kernel.UUID, to order.Status, reason string) (TransitionOrderCommand, error) {
	cmd, err := NewTransitionOrderCommand(orderID, to, order.PartnerActor(), reason)
	if err != nil {
		return TransitionOrderCommand{}, err
	}
	cmd.replayable = true
	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) To() order.Status {
	return c.to
}

func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

// Replayable reports whether a repeated delivery of the same target is accepted.
func (c TransitionOrderCommand) Replayable() bool {
	return c.replayable
}
