package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	edgeNonWord    = regexp.MustCompile(`^\W+|\W+$`)
	selectedMarker = regexp.MustCompile(`(?i):(?:un)?selected:`)

	apostrophes = strings.NewReplacer("`", "'", "‘", "'", "’", "'", "ʼ", "'", "´", "'")
)

// digitLookalikes maps digits OCR commonly produces in place of letters.
// This is a heuristic: a genuine alphanumeric token inside a name (a unit
// number, say) will be rewritten too.
var digitLookalikes = map[rune]rune{
	'0': 'O',
	'1': 'I',
	'5': 'S',
	'8': 'B',
}

// cleanName normalizes a raw name captured from OCR text.
func cleanName(raw string) string {
	name := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
	name = strings.ReplaceAll(name, "|", "I")
	name = apostrophes.Replace(name)
	name = edgeNonWord.ReplaceAllString(name, "")
	return fixDigitLookalikes(name)
}

// stripMarkers removes checkbox markers (":selected:", ":unselected:") that
// layout-aware OCR emits next to table cells.
func stripMarkers(line string) string {
	return selectedMarker.ReplaceAllString(line, "")
}

// fixDigitLookalikes rewrites interior digits that touch a letter on either
// side. Digits at the ends of the string, or surrounded by non-letters, are
// left alone.
func fixDigitLookalikes(s string) string {
	runes := []rune(s)
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = r
		if r < '0' || r > '9' || i == 0 || i == len(runes)-1 {
			continue
		}
		if !isASCIILetter(runes[i-1]) && !isASCIILetter(runes[i+1]) {
			continue
		}
		if letter, ok := digitLookalikes[r]; ok {
			out[i] = letter
		}
	}
	return string(out)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// parseHours parses an hours token and repairs a dropped decimal point.
// A value in [100, 10000) whose shortest form has 3 or 4 characters is
// reread with a point after the first two digits ("2710" -> 27.10).
// Range checking is left to the caller.
func parseHours(token string) (float64, bool) {
	hours, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	if hours >= 100 && hours < 10000 {
		s := strconv.FormatFloat(hours, 'f', -1, 64)
		if len(s) == 3 || len(s) == 4 {
			if fixed, err := strconv.ParseFloat(s[:2]+"."+s[2:], 64); err == nil {
				hours = fixed
			}
		}
	}
	return hours, true
}

// nameKey is the identity used to drop repeated partners.
func nameKey(name string) string {
	folded := norm.NFKC.String(strings.ToLower(name))
	return strings.Join(strings.Fields(folded), " ")
}
