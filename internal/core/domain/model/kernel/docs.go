// Package kernel provides the shared domain primitives of the fulfillment core.
//
// The package includes:
//   - UUID: identifier value object for orders, users, workers, promo codes and payouts
//   - Money: non-negative-aware decimal amount with a fixed two-place minor unit
//   - DomainEvent / EventRecorder: events raised by aggregates and published after commit
//
// All primitives are immutable values and safe for concurrent use.
package kernel
