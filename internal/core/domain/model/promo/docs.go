// Package promo implements promotional discount codes and their redemptions.
//
// A PromoCode is validated against an order (Evaluate) while pricing, and
// redeemed once when the order is finalized (Redeem). The store is the
// arbiter for concurrent redemptions: global usage is bounded by a conditional
// increment and single-use codes by a unique (promo code, user) key.
package promo
