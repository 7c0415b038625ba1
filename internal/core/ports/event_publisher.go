package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// EventPublisher delivers domain events after their transaction committed.
// Delivery is fire-and-forget: a failure never undoes the committed change.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
