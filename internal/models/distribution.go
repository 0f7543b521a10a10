package models

// PartnerHours is one partner's tippable hours.
// It is produced by the report parser or by manual entry and consumed by the
// payout calculator.
type PartnerHours struct {
	// Name is the partner's display name, trimmed and whitespace-normalized
	// (e.g., "Bradley, Kay M").
	Name string `json:"name"`

	// Hours is the number of tippable hours, always in (0, 200) when parsed.
	Hours float64 `json:"hours"`
}

// BillBreakdownEntry is a count of bills of one denomination.
type BillBreakdownEntry struct {
	// Denomination is the face value of the bill in whole dollars (20, 10, 5, 1).
	Denomination int `json:"denomination"`

	// Quantity is the number of bills of this denomination.
	Quantity int `json:"quantity"`
}

// PartnerPayout is one partner's share of the tip pool.
// Invariant: the sum of Quantity × Denomination over BillBreakdown == Rounded.
type PartnerPayout struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`

	// Payout is the exact amount owed: Hours × hourly rate, unrounded.
	Payout float64 `json:"payout"`

	// Rounded is Payout rounded to the nearest whole dollar.
	Rounded int `json:"rounded"`

	// BillBreakdown lists bills by descending denomination.
	// Denominations with a zero quantity are omitted.
	BillBreakdown []BillBreakdownEntry `json:"billBreakdown"`
}

// DistributionData is the result of distributing a tip pool.
// TotalHours is the sum of the partners' hours and HourlyRate is
// TotalAmount / TotalHours truncated to two decimals (0 when TotalHours is 0).
type DistributionData struct {
	TotalAmount    float64         `json:"totalAmount"`
	TotalHours     float64         `json:"totalHours"`
	HourlyRate     float64         `json:"hourlyRate"`
	PartnerPayouts []PartnerPayout `json:"partnerPayouts"`
}

// Distribution is a DistributionData saved to the history.
type Distribution struct {
	// ID is the unique identifier for the distribution (UUID format).
	ID string `json:"id"`

	// CreatedAt is the Unix timestamp when the distribution was saved.
	CreatedAt int64 `json:"createdAt"`

	DistributionData
}
