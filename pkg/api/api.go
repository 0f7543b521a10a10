// Package api defines the request and response messages of the
// sbuxpartners.v1.TipService. Messages travel as JSON.
package api

import (
	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/parser"
)

type ParseReportRequest struct {
	// Text is the raw OCR transcription of a tip distribution report.
	Text string `json:"text"`
}

type ParseReportResponse struct {
	Partners   []models.PartnerHours `json:"partners"`
	TotalHours *float64              `json:"totalHours,omitempty"`
	Confidence int                   `json:"confidence"`
	Validation parser.Validation     `json:"validation"`

	// ManualText is the parse rendered as "Name: hours" lines, for
	// prefilling manual correction.
	ManualText string `json:"manualText"`

	// SuggestManualEntry is set when the parse should not be trusted as is.
	SuggestManualEntry bool `json:"suggestManualEntry"`
}

type ScanReportRequest struct {
	// Image is the encoded report image (PNG, JPEG, ...).
	Image []byte `json:"image"`
}

type ScanReportResponse struct {
	ParseReportResponse

	// RawText is the OCR transcription the parse was run on.
	RawText string `json:"rawText"`
	Engine  string `json:"engine,omitempty"`

	// Error describes why recognition failed. A failed scan is not an RPC
	// error: the client is asked to enter hours by hand instead.
	Error string `json:"error,omitempty"`
}

type ParseManualEntryRequest struct {
	Text string `json:"text"`
}

type ParseManualEntryResponse struct {
	Partners []models.PartnerHours `json:"partners"`
}

type CalculateDistributionRequest struct {
	TotalAmount  float64               `json:"totalAmount"`
	PartnerHours []models.PartnerHours `json:"partnerHours"`
}

type CalculateDistributionResponse struct {
	Distribution models.DistributionData `json:"distribution"`

	// BillsNeeded totals the bills of every payout.
	BillsNeeded []models.BillBreakdownEntry `json:"billsNeeded"`
}

type SaveDistributionRequest struct {
	TotalAmount  float64               `json:"totalAmount"`
	PartnerHours []models.PartnerHours `json:"partnerHours"`
}

type SaveDistributionResponse struct {
	Distribution *models.Distribution `json:"distribution"`
}

type GetDistributionRequest struct {
	ID string `json:"id"`
}

type GetDistributionResponse struct {
	Distribution *models.Distribution        `json:"distribution"`
	BillsNeeded  []models.BillBreakdownEntry `json:"billsNeeded"`
}

type ListDistributionsRequest struct{}

type ListDistributionsResponse struct {
	Distributions []*models.Distribution `json:"distributions"`
}

type CreatePartnerRequest struct {
	Name string `json:"name"`
}

type CreatePartnerResponse struct {
	Partner *models.Partner `json:"partner"`
}

type GetPartnerRequest struct {
	ID string `json:"id"`
}

type GetPartnerResponse struct {
	Partner *models.Partner `json:"partner"`
}

type ListPartnersRequest struct{}

type ListPartnersResponse struct {
	Partners []*models.Partner `json:"partners"`
}
