// Package services contains stateless domain services that span aggregates.
//
// The package includes:
//   - SettlementCalculator: commission, fee and payout split for a captured amount
//   - PayoutPlanner: the restaurant and worker payouts owed for a delivered order
package services
