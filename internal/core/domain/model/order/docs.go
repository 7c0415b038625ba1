// Package order implements the Order aggregate and its state machine.
//
// The package includes:
//   - Order: aggregate root owning status, worker assignment, amounts and payment status
//   - Status / PaymentStatus: lifecycle enums with their transition tables
//   - Actor / Role: who may trigger which transition
//   - Transition and domain events raised by every mutation
//
// Key business rules:
//   - a worker is present exactly while the order is assigned, picked_up, in_transit or delivered
//   - only the assignment path enters assigned; the first persisted claim wins
//   - delivered, delivery_failed and cancelled are terminal
//   - lifecycle timestamps are written once
package order
