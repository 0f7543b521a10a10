package parser

// Options holds the calibration values used to score and validate a parse.
//
// The confidence bonuses and validation thresholds were tuned against real
// report scans rather than derived, so they are configurable instead of
// being hard-coded into the parser.
type Options struct {
	// HeaderBonus is awarded when the "Partner Name ... Tippable" header is found.
	HeaderBonus int `toml:"header_bonus"`

	// StoreCodeBonus is awarded when no header is found but a row starting
	// with a 5-digit store code is.
	StoreCodeBonus int `toml:"store_code_bonus"`

	// FooterBonus is awarded when the "Total Tippable Hours" footer is read.
	FooterBonus int `toml:"footer_bonus"`

	// PerPartnerBonus is awarded per unique partner, up to MaxPartnerBonus.
	PerPartnerBonus int `toml:"per_partner_bonus"`
	MaxPartnerBonus int `toml:"max_partner_bonus"`

	// TotalMatchBonus is awarded when the partners' hours sum to within
	// TotalMatchTolerance (relative) of the footer total; TotalCloseBonus when
	// within TotalCloseTolerance.
	TotalMatchBonus     int     `toml:"total_match_bonus"`
	TotalMatchTolerance float64 `toml:"total_match_tolerance"`
	TotalCloseBonus     int     `toml:"total_close_bonus"`
	TotalCloseTolerance float64 `toml:"total_close_tolerance"`

	// FooterMinLine is the line index after which a footer is accepted even
	// before any partner was found.
	FooterMinLine int `toml:"footer_min_line"`

	// MaxHours is the exclusive upper bound for parsed hours.
	MaxHours float64 `toml:"max_hours"`

	// MinConfidence is the validation threshold for small results;
	// MinConfidenceMany applies once ManyPartners or more were found.
	MinConfidence     int `toml:"min_confidence"`
	MinConfidenceMany int `toml:"min_confidence_many"`
	ManyPartners      int `toml:"many_partners"`

	// MinNameLength is the shortest name the validator accepts.
	MinNameLength int `toml:"min_name_length"`
}

// DefaultOptions returns the calibration the parser ships with.
func DefaultOptions() Options {
	return Options{
		HeaderBonus:         20,
		StoreCodeBonus:      10,
		FooterBonus:         15,
		PerPartnerBonus:     5,
		MaxPartnerBonus:     50,
		TotalMatchBonus:     15,
		TotalMatchTolerance: 0.01,
		TotalCloseBonus:     5,
		TotalCloseTolerance: 0.05,
		FooterMinLine:       10,
		MaxHours:            200,
		MinConfidence:       20,
		MinConfidenceMany:   15,
		ManyPartners:        3,
		MinNameLength:       3,
	}
}
