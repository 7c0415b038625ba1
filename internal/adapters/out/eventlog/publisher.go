// Package eventlog publishes domain events to the structured log. It is the
// notifier used when no message broker is configured.
package eventlog

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
)

// Publisher implements ports.EventPublisher on top of slog.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger.With("component", "event_log")}
}

// Publish writes one info record per event. It never fails.
func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	for _, event := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event", event.EventName(),
			"event_id", event.EventID().String(),
			"aggregate_id", event.AggregateID().String(),
			"occurred_at", event.OccurredAt(),
			"payload", event,
		)
	}
	return nil
}
