package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

// cursor walks the report lines. Strategies read ahead from pos and report
// how many lines they consumed.
type cursor struct {
	lines []string
	pos   int
	opts  *Options
}

func (c *cursor) current() string {
	return c.lines[c.pos]
}

// peek returns the line offset lines after the current one.
func (c *cursor) peek(offset int) (string, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.lines) {
		return "", false
	}
	return c.lines[i], true
}

// strategy extracts at most one partner starting at the cursor.
type strategy struct {
	name  string
	match func(c *cursor) (rec models.PartnerHours, consumed int, ok bool)
}

// rowStrategies are tried on every line before the footer check.
// blockStrategies are tried after it, in order.
var (
	rowStrategies = []strategy{
		{name: "single-line-row", match: matchRow},
	}
	blockStrategies = []strategy{
		{name: "four-line-block", match: matchFourLineBlock},
		{name: "name-then-hours", match: matchNameThenHours},
	}
)

// rowPattern is one single-line table row layout. Group 1 is the name and
// group 2 the hours token.
type rowPattern struct {
	name         string
	re           *regexp.Regexp
	requireComma bool
	minNameLen   int
}

var rowPatterns = []rowPattern{
	// "69600    Ailuogwemhe, Jodie O    US37008498    9.22"
	{
		name:       "row-full",
		re:         regexp.MustCompile(`(?i)^\d{5}\s+([A-Za-z\s,.'-]+?)\s+US\d{7,9}\s+(\d+\.?\d*)$`),
		minNameLen: 3,
	},
	// "69600    Ailuogwemhe, Jodie O    US37008498    9.22 = 13"
	{
		name:       "row-trailing-text",
		re:         regexp.MustCompile(`(?i)^\d{5}\s+([A-Za-z\s,.'-]+?)\s+US\d{7,9}\s+(\d+\.?\d*)`),
		minNameLen: 3,
	},
	// "Ailuogwemhe, Jodie O    US37008498    9.22"
	{
		name:       "row-no-store",
		re:         regexp.MustCompile(`(?i)^([A-Za-z\s,.'-]+?)\s+US\d{7,9}\s+(\d+\.?\d*)$`),
		minNameLen: 3,
	},
	{
		name:       "row-comma-id",
		re:         regexp.MustCompile(`(?i)^([A-Za-z\s,.'-]+,\s+[A-Za-z\s.'-]+?)\s+US\d{7,9}\s+(\d+\.?\d*)$`),
		minNameLen: 3,
	},
	// "Lastname, Firstname M    27.10"
	{
		name:         "row-comma-hours",
		re:           regexp.MustCompile(`^([A-Za-z\s.'-]+,\s+[A-Za-z\s.'-]+)\s+(\d+\.?\d*)$`),
		requireComma: true,
		minNameLen:   5,
	},
}

var (
	leadingMultiplier = regexp.MustCompile(`(?i)^\d+x`)
	footerLine        = regexp.MustCompile(`(?i)^total\s+(?:tippable\s+)?hours[\s:]+(\d+\.?\d*)$`)
	storeCodeOnly     = regexp.MustCompile(`^\d{5}$`)
	partnerID         = regexp.MustCompile(`(?i)^US\d{7,9}$`)
	bareDecimal       = regexp.MustCompile(`^(\d+\.?\d*)$`)
	decimalWithUnit   = regexp.MustCompile(`(?i)^(\d+\.?\d*)\s*(?:hours)?\.?$`)
	commaName         = regexp.MustCompile(`^[A-Za-z\s.'-]+,\s+[A-Za-z\s.'-]+`)
)

// decorativeKeywords mark header, summary and calculation lines.
var decorativeKeywords = []string{
	"partner name",
	"home store",
	"store number",
	"calculation",
	"total tips",
	"bills needed",
}

func isDecorative(line string) bool {
	if strings.ContainsAny(line, "$×") || leadingMultiplier.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range decorativeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// matchRow tries each single-line row layout in order.
func matchRow(c *cursor) (models.PartnerHours, int, bool) {
	line := c.current()
	if isDecorative(line) {
		return models.PartnerHours{}, 0, false
	}
	for _, p := range rowPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rec, ok := c.accept(m[1], m[2], p.minNameLen, p.requireComma); ok {
			return rec, 1, true
		}
	}
	return models.PartnerHours{}, 0, false
}

// matchFourLineBlock reads a row that layout OCR split into four lines:
// store code, name, partner ID, hours.
func matchFourLineBlock(c *cursor) (models.PartnerHours, int, bool) {
	if !storeCodeOnly.MatchString(c.current()) {
		return models.PartnerHours{}, 0, false
	}
	nameLine, ok := c.peek(1)
	if !ok {
		return models.PartnerHours{}, 0, false
	}
	idLine, _ := c.peek(2)
	hoursLine, ok := c.peek(3)
	if !ok || !partnerID.MatchString(idLine) {
		return models.PartnerHours{}, 0, false
	}
	m := bareDecimal.FindStringSubmatch(hoursLine)
	if m == nil {
		return models.PartnerHours{}, 0, false
	}
	rec, ok := c.accept(stripMarkers(nameLine), m[1], 5, true)
	if !ok {
		return models.PartnerHours{}, 0, false
	}
	return rec, 4, true
}

// matchNameThenHours reads a "Lastname, Firstname" line and looks up to four
// lines ahead for its hours, skipping partner ID lines.
func matchNameThenHours(c *cursor) (models.PartnerHours, int, bool) {
	line := c.current()
	if !commaName.MatchString(line) {
		return models.PartnerHours{}, 0, false
	}
	name := cleanName(stripMarkers(line))
	if utf8.RuneCountInString(name) < 5 {
		return models.PartnerHours{}, 0, false
	}
	for offset := 1; offset <= 4; offset++ {
		next, ok := c.peek(offset)
		if !ok {
			break
		}
		if partnerID.MatchString(next) {
			continue
		}
		m := decimalWithUnit.FindStringSubmatch(next)
		if m == nil {
			continue
		}
		hours, ok := parseHours(m[1])
		if ok && c.hoursInRange(hours) {
			return models.PartnerHours{Name: name, Hours: hours}, offset + 1, true
		}
	}
	return models.PartnerHours{}, 0, false
}

// matchFooter reads the "Total Tippable Hours: N" line. It is ignored near
// the top of the text until a partner has been found, so a stray total in a
// page header does not end the table early.
func (c *cursor) matchFooter(found int) (float64, bool) {
	if found == 0 && c.pos <= c.opts.FooterMinLine {
		return 0, false
	}
	m := footerLine.FindStringSubmatch(c.current())
	if m == nil {
		return 0, false
	}
	total, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

// accept cleans a captured name and hours token and applies the range checks.
func (c *cursor) accept(rawName, hoursToken string, minNameLen int, requireComma bool) (models.PartnerHours, bool) {
	name := cleanName(rawName)
	if name == "" || utf8.RuneCountInString(name) < minNameLen {
		return models.PartnerHours{}, false
	}
	if requireComma && !strings.Contains(name, ",") {
		return models.PartnerHours{}, false
	}
	hours, ok := parseHours(hoursToken)
	if !ok || !c.hoursInRange(hours) {
		return models.PartnerHours{}, false
	}
	return models.PartnerHours{Name: name, Hours: hours}, true
}

func (c *cursor) hoursInRange(hours float64) bool {
	return hours > 0 && hours < c.opts.MaxHours
}
