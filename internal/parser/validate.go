package parser

import (
	"fmt"
	"unicode/utf8"
)

// Validation is the outcome of sanity-checking a ParseResult.
// Errors are meant for display; an invalid result is a prompt for manual
// review, not a failure.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks result against DefaultOptions.
func Validate(result ParseResult) Validation {
	return DefaultOptions().Validate(result)
}

// Validate checks that result is usable: at least one partner, plausible
// names and hours, and enough confidence. More partners is corroborating
// evidence, so the confidence bar is lower once ManyPartners are found.
func (o Options) Validate(result ParseResult) Validation {
	errs := []string{}

	if len(result.Partners) == 0 {
		errs = append(errs, "no partners found")
	}
	for _, p := range result.Partners {
		if utf8.RuneCountInString(p.Name) < o.MinNameLength {
			errs = append(errs, fmt.Sprintf("partner name %q is too short", p.Name))
		}
		if p.Hours <= 0 || p.Hours > o.MaxHours {
			errs = append(errs, fmt.Sprintf("partner %q has invalid hours %.2f", p.Name, p.Hours))
		}
	}

	minConfidence := o.MinConfidence
	if len(result.Partners) >= o.ManyPartners {
		minConfidence = o.MinConfidenceMany
	}
	if result.Confidence < minConfidence {
		errs = append(errs, fmt.Sprintf("confidence %d is below %d", result.Confidence, minConfidence))
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}

// Validate checks result with the parser's calibration.
func (p *Parser) Validate(result ParseResult) Validation {
	return p.opts.Validate(result)
}
