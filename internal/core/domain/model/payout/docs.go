// Package payout implements money transfers owed to restaurants and delivery workers.
//
// A Payout is identified by a caller-chosen payout id, which doubles as the
// idempotency key towards the payment rail. Status only moves forward:
//
//	Pending ──> Processing ──> Completed
//	   │            │
//	   └────────────┴──> Failed
package payout
