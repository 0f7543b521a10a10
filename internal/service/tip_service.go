package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/sbuxpartner/sbuxpartners/internal/calculator"
	"github.com/sbuxpartner/sbuxpartners/internal/metrics"
	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/ocr"
	"github.com/sbuxpartner/sbuxpartners/internal/parser"
	"github.com/sbuxpartner/sbuxpartners/internal/storage"
	"github.com/sbuxpartner/sbuxpartners/pkg/api"
	"github.com/sbuxpartner/sbuxpartners/pkg/api/apiconnect"
)

// Parse sources reported to metrics.
const (
	sourceText  = "text"
	sourceImage = "image"
)

// DefaultMaxImageBytes caps the size of an uploaded report image.
const DefaultMaxImageBytes = 10 << 20

var _ apiconnect.TipServiceHandler = (*TipService)(nil)

// TipService implements the Connect TipService.
type TipService struct {
	store         storage.Store
	parser        *parser.Parser
	engine        ocr.Engine // nil when OCR is disabled
	metrics       *metrics.Metrics
	maxImageBytes int64
}

// NewTipService creates a TipService. engine may be nil, in which case
// ScanReport always asks for manual entry.
func NewTipService(store storage.Store, p *parser.Parser, engine ocr.Engine, m *metrics.Metrics) *TipService {
	return &TipService{
		store:         store,
		parser:        p,
		engine:        engine,
		metrics:       m,
		maxImageBytes: DefaultMaxImageBytes,
	}
}

// SetMaxImageBytes overrides the image size limit. Non-positive values are
// ignored.
func (s *TipService) SetMaxImageBytes(n int64) {
	if n > 0 {
		s.maxImageBytes = n
	}
}

// ParseReport parses OCR text that the client recognized itself.
func (s *TipService) ParseReport(ctx context.Context, req *connect.Request[api.ParseReportRequest]) (*connect.Response[api.ParseReportResponse], error) {
	resp := s.parseText(req.Msg.Text, sourceText)
	return connect.NewResponse(resp), nil
}

// ScanReport runs the OCR engine on an uploaded image and parses the text.
// Recognition failures are reported in the response, with manual entry
// suggested, rather than as RPC errors.
func (s *TipService) ScanReport(ctx context.Context, req *connect.Request[api.ScanReportRequest]) (*connect.Response[api.ScanReportResponse], error) {
	image := req.Msg.Image
	if len(image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("image is required"))
	}
	if int64(len(image)) > s.maxImageBytes {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("image is %d bytes, limit is %d", len(image), s.maxImageBytes))
	}

	if s.engine == nil {
		return connect.NewResponse(s.scanFailed("", errors.New("OCR is not available on this server"))), nil
	}

	result, err := s.engine.Recognize(ctx, image)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connect.NewError(connect.CodeCanceled, ctx.Err())
		}
		slog.Warn("OCR failed", "engine", s.engine.Name(), "bytes", len(image), "error", err)
		return connect.NewResponse(s.scanFailed(s.engine.Name(), err)), nil
	}
	s.metrics.OCRDuration.WithLabelValues(result.Engine).Observe(result.Duration.Seconds())

	slog.Info("Report recognized",
		"engine", result.Engine,
		"lines", len(result.Lines),
		"mean_confidence", result.MeanConfidence(),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return connect.NewResponse(&api.ScanReportResponse{
		ParseReportResponse: *s.parseText(result.Text, sourceImage),
		RawText:             result.Text,
		Engine:              result.Engine,
	}), nil
}

func (s *TipService) scanFailed(engine string, err error) *api.ScanReportResponse {
	s.metrics.ObserveParse(sourceImage, metrics.OutcomeOCRFail, 0, 0)
	return &api.ScanReportResponse{
		ParseReportResponse: api.ParseReportResponse{
			Partners: []models.PartnerHours{},
			Validation: parser.Validation{
				Errors: []string{"could not read the report image"},
			},
			SuggestManualEntry: true,
		},
		Engine: engine,
		Error:  err.Error(),
	}
}

func (s *TipService) parseText(text, source string) *api.ParseReportResponse {
	result := s.parser.Parse(text)
	validation := s.parser.Validate(result)

	outcome := metrics.OutcomeReview
	switch {
	case len(result.Partners) == 0:
		outcome = metrics.OutcomeEmpty
	case validation.Valid:
		outcome = metrics.OutcomeValid
	}
	s.metrics.ObserveParse(source, outcome, result.Confidence, len(result.Partners))

	slog.Info("Report parsed",
		"source", source,
		"partners", len(result.Partners),
		"confidence", result.Confidence,
		"valid", validation.Valid,
	)
	if !validation.Valid {
		slog.Debug("Report needs review", "errors", validation.Errors)
	}

	return &api.ParseReportResponse{
		Partners:           result.Partners,
		TotalHours:         result.TotalHours,
		Confidence:         result.Confidence,
		Validation:         validation,
		ManualText:         parser.FormatManualEntry(result.Partners),
		SuggestManualEntry: !validation.Valid,
	}
}

// ParseManualEntry parses hand-typed "Name: hours" lines.
func (s *TipService) ParseManualEntry(ctx context.Context, req *connect.Request[api.ParseManualEntryRequest]) (*connect.Response[api.ParseManualEntryResponse], error) {
	partners := parser.ParseManualEntry(req.Msg.Text)
	slog.Debug("Manual entry parsed", "partners", len(partners))
	return connect.NewResponse(&api.ParseManualEntryResponse{Partners: partners}), nil
}

// CalculateDistribution splits a tip pool by hours without saving it.
func (s *TipService) CalculateDistribution(ctx context.Context, req *connect.Request[api.CalculateDistributionRequest]) (*connect.Response[api.CalculateDistributionResponse], error) {
	data, err := s.distribute(req.Msg.TotalAmount, req.Msg.PartnerHours)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.CalculateDistributionResponse{
		Distribution: data,
		BillsNeeded:  calculator.BillsNeeded(data.PartnerPayouts),
	}), nil
}

// SaveDistribution computes a distribution and saves it to the history.
func (s *TipService) SaveDistribution(ctx context.Context, req *connect.Request[api.SaveDistributionRequest]) (*connect.Response[api.SaveDistributionResponse], error) {
	data, err := s.distribute(req.Msg.TotalAmount, req.Msg.PartnerHours)
	if err != nil {
		return nil, err
	}

	d := &models.Distribution{DistributionData: data}
	if err := s.store.CreateDistribution(ctx, d); err != nil {
		slog.Error("Failed to save distribution", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Distribution saved", "distribution_id", d.ID, "partners", len(d.PartnerPayouts))
	return connect.NewResponse(&api.SaveDistributionResponse{Distribution: d}), nil
}

func (s *TipService) distribute(totalAmount float64, partners []models.PartnerHours) (models.DistributionData, error) {
	if err := calculator.ValidateTotalAmount(totalAmount); err != nil {
		return models.DistributionData{}, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := calculator.ValidatePartnerHours(partners); err != nil {
		return models.DistributionData{}, connect.NewError(connect.CodeInvalidArgument, err)
	}

	data, err := calculator.Distribute(totalAmount, partners)
	if err != nil {
		return models.DistributionData{}, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var paid int
	for _, p := range data.PartnerPayouts {
		paid += p.Rounded
	}
	s.metrics.DistributionsTotal.Inc()
	s.metrics.DistributedDollars.Add(float64(paid))

	slog.Debug("Distribution calculated",
		"total_amount", data.TotalAmount,
		"total_hours", data.TotalHours,
		"hourly_rate", data.HourlyRate,
		"paid", paid,
	)
	return data, nil
}

// GetDistribution retrieves a saved distribution.
func (s *TipService) GetDistribution(ctx context.Context, req *connect.Request[api.GetDistributionRequest]) (*connect.Response[api.GetDistributionResponse], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id is required"))
	}

	d, err := s.store.GetDistribution(ctx, req.Msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		slog.Error("Failed to get distribution", "distribution_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetDistributionResponse{
		Distribution: d,
		BillsNeeded:  calculator.BillsNeeded(d.PartnerPayouts),
	}), nil
}

// ListDistributions returns the saved history, newest first.
func (s *TipService) ListDistributions(ctx context.Context, req *connect.Request[api.ListDistributionsRequest]) (*connect.Response[api.ListDistributionsResponse], error) {
	distributions, err := s.store.ListDistributions(ctx)
	if err != nil {
		slog.Error("Failed to list distributions", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if distributions == nil {
		distributions = []*models.Distribution{}
	}

	return connect.NewResponse(&api.ListDistributionsResponse{Distributions: distributions}), nil
}

// CreatePartner adds a partner to the roster.
func (s *TipService) CreatePartner(ctx context.Context, req *connect.Request[api.CreatePartnerRequest]) (*connect.Response[api.CreatePartnerResponse], error) {
	name := strings.Join(strings.Fields(req.Msg.Name), " ")
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}

	partner := &models.Partner{Name: name}
	if err := s.store.CreatePartner(ctx, partner); err != nil {
		slog.Error("Failed to create partner", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Partner created", "partner_id", partner.ID)
	return connect.NewResponse(&api.CreatePartnerResponse{Partner: partner}), nil
}

// GetPartner retrieves a roster partner.
func (s *TipService) GetPartner(ctx context.Context, req *connect.Request[api.GetPartnerRequest]) (*connect.Response[api.GetPartnerResponse], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id is required"))
	}

	partner, err := s.store.GetPartner(ctx, req.Msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		slog.Error("Failed to get partner", "partner_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetPartnerResponse{Partner: partner}), nil
}

// ListPartners returns the roster ordered by name.
func (s *TipService) ListPartners(ctx context.Context, req *connect.Request[api.ListPartnersRequest]) (*connect.Response[api.ListPartnersResponse], error) {
	partners, err := s.store.ListPartners(ctx)
	if err != nil {
		slog.Error("Failed to list partners", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if partners == nil {
		partners = []*models.Partner{}
	}

	return connect.NewResponse(&api.ListPartnersResponse{Partners: partners}), nil
}
