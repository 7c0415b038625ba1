package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one business transaction. It is used by a single goroutine.
// Events raised by aggregates written through its repositories are published
// after a successful Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes collected events.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction and the collected events.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PromoCodeRepository() PromoCodeRepository
	PayoutRepository() PayoutRepository
}
