package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

var manualLine = regexp.MustCompile(`^(.*?):\s*(\d+(?:\.\d+)?)$`)

// ParseManualEntry parses hand-typed "Name: hours" lines. Lines that do not
// match are dropped. The input is trusted, so no OCR correction is applied.
func ParseManualEntry(text string) []models.PartnerHours {
	result := []models.PartnerHours{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		m := manualLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		hours, err := strconv.ParseFloat(m[2], 64)
		if name == "" || err != nil {
			continue
		}
		result = append(result, models.PartnerHours{Name: name, Hours: hours})
	}
	return result
}

// FormatManualEntry renders partners as "Name: hours" lines, the format
// ParseManualEntry reads. It is used to prefill manual correction with
// whatever the OCR parse recovered.
func FormatManualEntry(partners []models.PartnerHours) string {
	var b strings.Builder
	for i, p := range partners {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(p.Hours, 'f', -1, 64))
	}
	return b.String()
}
