package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/parser"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)
)

// newTable builds a bordered table. Columns listed in numeric are right-aligned.
func newTable(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func formatDollars(d float64) string {
	return fmt.Sprintf("$%.2f", d)
}

func formatBills(bills []models.BillBreakdownEntry) string {
	if len(bills) == 0 {
		return "-"
	}
	parts := make([]string, len(bills))
	for i, b := range bills {
		parts[i] = fmt.Sprintf("%d×$%d", b.Quantity, b.Denomination)
	}
	return strings.Join(parts, " ")
}

func renderPartners(partners []models.PartnerHours) string {
	if len(partners) == 0 {
		return warningStyle.Render("No partners found.") + "\n"
	}

	rows := make([][]string, len(partners))
	var total float64
	for i, p := range partners {
		rows[i] = []string{p.Name, formatHours(p.Hours)}
		total += p.Hours
	}
	rows = append(rows, []string{"Total", formatHours(total)})

	return newTable([]string{"Partner", "Hours"}, rows, 1) + "\n"
}

func renderParse(result parser.ParseResult, validation parser.Validation) string {
	var b strings.Builder

	b.WriteString(renderPartners(result.Partners))
	if result.TotalHours != nil {
		b.WriteString(dimStyle.Render("Report total: "+formatHours(*result.TotalHours)+" hours") + "\n")
	}
	b.WriteString(fmt.Sprintf("Confidence: %d%%\n", result.Confidence))

	if validation.Valid {
		b.WriteString(successStyle.Render("Looks good.") + "\n")
		return b.String()
	}

	b.WriteString(warningStyle.Render("Please review before distributing:") + "\n")
	for _, e := range validation.Errors {
		b.WriteString("  • " + e + "\n")
	}
	if len(result.Partners) > 0 {
		b.WriteString(dimStyle.Render("Correct the lines below and run `tipctl calc`:") + "\n")
		b.WriteString(parser.FormatManualEntry(result.Partners) + "\n")
	}
	return b.String()
}

func renderDistribution(data models.DistributionData, billsNeeded []models.BillBreakdownEntry) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tip Distribution") + "\n")
	b.WriteString(fmt.Sprintf("Total tips: %s   Total hours: %s   Hourly rate: %s\n",
		formatDollars(data.TotalAmount), formatHours(data.TotalHours), formatDollars(data.HourlyRate)))

	rows := make([][]string, len(data.PartnerPayouts))
	var paid int
	for i, p := range data.PartnerPayouts {
		rows[i] = []string{
			p.Name,
			formatHours(p.Hours),
			formatDollars(p.Payout),
			"$" + strconv.Itoa(p.Rounded),
			formatBills(p.BillBreakdown),
		}
		paid += p.Rounded
	}
	b.WriteString(newTable([]string{"Partner", "Hours", "Exact", "Paid", "Bills"}, rows, 1, 2, 3) + "\n")

	b.WriteString(fmt.Sprintf("Paid out: $%d\n", paid))
	b.WriteString("Bills needed: " + formatBills(billsNeeded) + "\n")
	return b.String()
}
