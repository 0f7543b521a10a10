package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

// Denominations are the bills paid out, largest first.
//
// Greedy breakdown gives the fewest bills for this set; it is not a general
// change-making solver and would not be optimal for arbitrary denominations.
var Denominations = []int{20, 10, 5, 1}

// ErrAmountOutOfRange is returned for payouts that are negative, not finite,
// or larger than MaxTotalAmount.
var ErrAmountOutOfRange = errors.New("payout out of range")

// RoundAndBreakdown rounds an exact payout to the nearest dollar (half away
// from zero) and breaks the rounded amount into bills.
func RoundAndBreakdown(exact float64) (int, []models.BillBreakdownEntry, error) {
	if math.IsNaN(exact) || exact < 0 || exact > MaxTotalAmount {
		return 0, nil, fmt.Errorf("%w: %v", ErrAmountOutOfRange, exact)
	}
	rounded := int(math.Round(exact))
	return rounded, BillBreakdown(rounded), nil
}

// BillBreakdown breaks a whole-dollar amount into the fewest bills.
// Only denominations with a positive quantity are listed, largest first.
// Non-positive amounts yield an empty breakdown.
func BillBreakdown(amount int) []models.BillBreakdownEntry {
	breakdown := []models.BillBreakdownEntry{}
	remaining := amount
	for _, denom := range Denominations {
		if remaining < denom {
			continue
		}
		quantity := remaining / denom
		breakdown = append(breakdown, models.BillBreakdownEntry{
			Denomination: denom,
			Quantity:     quantity,
		})
		remaining -= quantity * denom
	}
	return breakdown
}

// BillsNeeded totals the bills across all payouts, which is what has to be
// pulled from the till. Denominations not needed are omitted.
func BillsNeeded(payouts []models.PartnerPayout) []models.BillBreakdownEntry {
	counts := make(map[int]int, len(Denominations))
	for _, p := range payouts {
		for _, b := range p.BillBreakdown {
			counts[b.Denomination] += b.Quantity
		}
	}

	needed := []models.BillBreakdownEntry{}
	for _, denom := range Denominations {
		if counts[denom] > 0 {
			needed = append(needed, models.BillBreakdownEntry{Denomination: denom, Quantity: counts[denom]})
		}
	}
	return needed
}
