// Package parser recovers partner hours from OCR text of a tip distribution
// report, validates the result, and parses hand-typed "Name: hours" input.
//
// Parsing never fails: unreadable text yields an empty result with zero
// confidence, and it is up to the caller to fall back to manual entry.
package parser

import (
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

// ParseResult is what the parser recovered from one OCR transcription.
type ParseResult struct {
	// Partners in first-seen order, duplicates removed.
	Partners []models.PartnerHours `json:"partners"`

	// TotalHours is the footer total printed on the report, if one was read.
	TotalHours *float64 `json:"totalHours"`

	// Confidence is a heuristic score in [0, 100].
	Confidence int `json:"confidence"`
}

// SumHours returns the total of the parsed partners' hours.
func (r ParseResult) SumHours() float64 {
	var sum float64
	for _, p := range r.Partners {
		sum += p.Hours
	}
	return sum
}

// Parser parses report text with a fixed calibration.
// A Parser is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a Parser with the given calibration.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses rawText with DefaultOptions.
func Parse(rawText string) ParseResult {
	return New(DefaultOptions()).Parse(rawText)
}

var storeCodeRow = regexp.MustCompile(`(?i)^\d{5}\s+[A-Z]`)

// Parse extracts partner hours from rawText.
func (p *Parser) Parse(rawText string) ParseResult {
	lines := splitLines(rawText)
	confidence := 0

	start, bonus := p.findTableStart(lines)
	confidence += bonus

	c := &cursor{lines: lines, pos: start, opts: &p.opts}
	var found []models.PartnerHours
	var totalHours *float64

walk:
	for c.pos < len(c.lines) {
		if rec, n, name, ok := tryStrategies(c, rowStrategies); ok {
			slog.Debug("Report row matched", "strategy", name, "line", c.pos, "name", rec.Name, "hours", rec.Hours)
			found = append(found, rec)
			c.pos += n
			continue
		}

		if total, ok := c.matchFooter(len(found)); ok {
			totalHours = &total
			confidence += p.opts.FooterBonus
			break walk
		}

		if rec, n, name, ok := tryStrategies(c, blockStrategies); ok {
			slog.Debug("Report row matched", "strategy", name, "line", c.pos, "name", rec.Name, "hours", rec.Hours)
			found = append(found, rec)
			c.pos += n
			continue
		}

		c.pos++
	}

	partners := dedupe(found)
	if len(partners) != len(found) {
		slog.Debug("Removed duplicate partners", "total", len(found), "unique", len(partners))
	}

	result := ParseResult{Partners: partners, TotalHours: totalHours}
	if len(partners) > 0 {
		confidence += min(p.opts.MaxPartnerBonus, p.opts.PerPartnerBonus*len(partners))
	}
	if totalHours != nil && *totalHours > 0 && len(partners) > 0 {
		confidence += p.totalMatchBonus(result.SumHours(), *totalHours)
	}
	result.Confidence = max(0, min(100, confidence))

	return result
}

// findTableStart returns the index of the first table line and the
// confidence earned by locating it.
func (p *Parser) findTableStart(lines []string) (int, int) {
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "partner name") && strings.Contains(lower, "tippable") {
			return i + 1, p.opts.HeaderBonus
		}
	}
	for i, line := range lines {
		if storeCodeRow.MatchString(line) {
			return i, p.opts.StoreCodeBonus
		}
	}
	return 0, 0
}

func (p *Parser) totalMatchBonus(sum, reported float64) int {
	diff := math.Abs(sum-reported) / reported
	switch {
	case diff < p.opts.TotalMatchTolerance:
		return p.opts.TotalMatchBonus
	case diff < p.opts.TotalCloseTolerance:
		return p.opts.TotalCloseBonus
	default:
		return 0
	}
}

func tryStrategies(c *cursor, strategies []strategy) (models.PartnerHours, int, string, bool) {
	for _, s := range strategies {
		if rec, n, ok := s.match(c); ok {
			return rec, n, s.name, true
		}
	}
	return models.PartnerHours{}, 0, "", false
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// dedupe keeps the first occurrence of each partner name. Layout OCR often
// returns the same table twice (as a table and as running text).
func dedupe(partners []models.PartnerHours) []models.PartnerHours {
	seen := make(map[string]bool, len(partners))
	unique := make([]models.PartnerHours, 0, len(partners))
	for _, p := range partners {
		key := nameKey(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}
	return unique
}
