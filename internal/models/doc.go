// Package models defines the core domain models for tip distribution.
//
// # Models
//
// The following models flow through the system:
//   - PartnerHours: One partner's name and tippable hours, as read from a
//     report or typed in by hand
//   - PartnerPayout: Calculated payout for one partner, with its bill breakdown
//   - DistributionData: A full tip distribution for one tip pool
//   - Distribution: A saved DistributionData in the history
//   - Partner: An entry in the partner roster
//
// Partners are identified by display name strings inside a distribution.
// The roster exists so names can be offered for manual entry; distributions
// never reference roster IDs.
//
// # Money
//
// Amounts are float64 dollars. Exact payouts keep full precision; only the
// Rounded field of PartnerPayout is a whole number of dollars, and the bill
// breakdown always sums to it.
//
// # JSON
//
// Field names are stable because DistributionData is returned to clients
// as-is: name, hours, payout, rounded, billBreakdown[{denomination, quantity}].
package models
