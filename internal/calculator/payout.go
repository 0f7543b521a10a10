package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

// HourlyRate computes the tip rate per hour, truncated (never rounded) to two
// decimals so that rate × hours can never add up to more than the pool.
// Returns 0 when totalHours is 0.
//
// Example: 523.00 / 379.85 = 1.3768... -> 1.37
func HourlyRate(totalAmount, totalHours float64) float64 {
	if totalHours == 0 {
		return 0
	}
	rate := decimal.NewFromFloat(totalAmount).Div(decimal.NewFromFloat(totalHours))
	return rate.Truncate(2).InexactFloat64()
}

// Payout computes a partner's exact share. Rounding happens later, when the
// payout is broken down into bills.
func Payout(hours, hourlyRate float64) float64 {
	return hours * hourlyRate
}

// Input bounds. MaxPartnerHours is exclusive, matching the parser's range
// for a single partner; MaxTotalAmount keeps every payout well inside int.
const (
	MaxPartnerHours = 200
	MaxTotalAmount  = 1_000_000_000
)

// ValidateTotalAmount checks a tip pool amount supplied by a client.
func ValidateTotalAmount(totalAmount float64) error {
	if math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) {
		return fmt.Errorf("total amount must be a finite number")
	}
	if totalAmount < 0 {
		return fmt.Errorf("total amount must not be negative")
	}
	if totalAmount > MaxTotalAmount {
		return fmt.Errorf("total amount %.2f exceeds the limit of %d", totalAmount, MaxTotalAmount)
	}
	return nil
}

// ValidatePartnerHours checks partner hours supplied by a client before a
// distribution is computed.
func ValidatePartnerHours(partners []models.PartnerHours) error {
	if len(partners) == 0 {
		return fmt.Errorf("must have at least one partner")
	}
	for i, p := range partners {
		if p.Name == "" {
			return fmt.Errorf("partner %d: name is required", i+1)
		}
		if math.IsNaN(p.Hours) || p.Hours <= 0 {
			return fmt.Errorf("partner %q: hours must be positive", p.Name)
		}
		if p.Hours >= MaxPartnerHours {
			return fmt.Errorf("partner %q: hours must be below %d", p.Name, MaxPartnerHours)
		}
	}
	return nil
}

// Distribute splits totalAmount among partners in proportion to their hours.
//
// Algorithm:
//   - total_hours = Σ hours
//   - hourly_rate = truncate2(total_amount / total_hours)
//   - payout = hours × hourly_rate, then rounded to whole dollars and broken
//     into bills
//
// Partner order is preserved. The total amount is checked with
// ValidateTotalAmount; partner hours are the caller's to validate.
func Distribute(totalAmount float64, partners []models.PartnerHours) (models.DistributionData, error) {
	if err := ValidateTotalAmount(totalAmount); err != nil {
		return models.DistributionData{}, err
	}

	var totalHours float64
	for _, p := range partners {
		totalHours += p.Hours
	}
	rate := HourlyRate(totalAmount, totalHours)

	payouts := make([]models.PartnerPayout, len(partners))
	for i, p := range partners {
		exact := Payout(p.Hours, rate)
		rounded, bills, err := RoundAndBreakdown(exact)
		if err != nil {
			return models.DistributionData{}, fmt.Errorf("partner %q: %w", p.Name, err)
		}
		payouts[i] = models.PartnerPayout{
			Name:          p.Name,
			Hours:         p.Hours,
			Payout:        exact,
			Rounded:       rounded,
			BillBreakdown: bills,
		}
	}

	return models.DistributionData{
		TotalAmount:    totalAmount,
		TotalHours:     totalHours,
		HourlyRate:     rate,
		PartnerPayouts: payouts,
	}, nil
}
