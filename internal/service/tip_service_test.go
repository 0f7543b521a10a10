package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sbuxpartner/sbuxpartners/internal/metrics"
	"github.com/sbuxpartner/sbuxpartners/internal/middleware"
	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/ocr"
	"github.com/sbuxpartner/sbuxpartners/internal/parser"
	"github.com/sbuxpartner/sbuxpartners/internal/storage/sqlite"
	"github.com/sbuxpartner/sbuxpartners/pkg/api"
	"github.com/sbuxpartner/sbuxpartners/pkg/api/apiconnect"
)

const report = `Home Store  Partner Name          Partner Number  Total Tippable Hours
69600  Ailuogwemhe, Jodie O   US37008498   27.10
69600  Bradley, Kay M         US37148220   13.35
Total Tippable Hours:   40.45`

type fakeEngine struct {
	text string
	err  error
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, image []byte) (*ocr.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &ocr.Result{
		Text:     e.text,
		Lines:    []ocr.Line{{Text: e.text, Confidence: 0.9}},
		Engine:   "fake",
		Duration: 5 * time.Millisecond,
	}, nil
}

type testServer struct {
	client  *apiconnect.TipServiceClient
	svc     *TipService
	metrics *metrics.Metrics
}

// setupTestServer serves a TipService backed by a temporary SQLite database.
func setupTestServer(t *testing.T, engine ocr.Engine) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.New()
	svc := NewTipService(store, parser.New(parser.DefaultOptions()), engine, m)

	path, handler := apiconnect.NewTipServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		client:  apiconnect.NewTipServiceClient(http.DefaultClient, server.URL),
		svc:     svc,
		metrics: m,
	}
}

func TestParseReport(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.client.ParseReport(context.Background(), connect.NewRequest(&api.ParseReportRequest{Text: report}))
	if err != nil {
		t.Fatalf("ParseReport failed: %v", err)
	}

	msg := resp.Msg
	if len(msg.Partners) != 2 {
		t.Fatalf("expected 2 partners, got %d: %+v", len(msg.Partners), msg.Partners)
	}
	if msg.Partners[0].Name != "Ailuogwemhe, Jodie O" {
		t.Errorf("first partner = %q", msg.Partners[0].Name)
	}
	if msg.TotalHours == nil || math.Abs(*msg.TotalHours-40.45) > 0.001 {
		t.Errorf("total hours = %v, want 40.45", msg.TotalHours)
	}
	if msg.Confidence != 60 {
		t.Errorf("confidence = %d, want 60", msg.Confidence)
	}
	if !msg.Validation.Valid || msg.SuggestManualEntry {
		t.Errorf("expected a valid parse, got %+v", msg.Validation)
	}

	wantManual := "Ailuogwemhe, Jodie O: 27.1\nBradley, Kay M: 13.35"
	if msg.ManualText != wantManual {
		t.Errorf("manual text = %q, want %q", msg.ManualText, wantManual)
	}

	if got := testutil.ToFloat64(ts.metrics.ReportsParsed.WithLabelValues("text", metrics.OutcomeValid)); got != 1 {
		t.Errorf("valid text parses = %v, want 1", got)
	}
}

func TestParseReport_Unreadable(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.client.ParseReport(context.Background(), connect.NewRequest(&api.ParseReportRequest{
		Text: "smudged receipt\n### ###\n",
	}))
	if err != nil {
		t.Fatalf("ParseReport failed: %v", err)
	}

	if len(resp.Msg.Partners) != 0 {
		t.Errorf("expected no partners, got %+v", resp.Msg.Partners)
	}
	if resp.Msg.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", resp.Msg.Confidence)
	}
	if resp.Msg.Validation.Valid {
		t.Error("expected validation to fail")
	}
	if !resp.Msg.SuggestManualEntry {
		t.Error("expected manual entry to be suggested")
	}

	if got := testutil.ToFloat64(ts.metrics.ReportsParsed.WithLabelValues("text", metrics.OutcomeEmpty)); got != 1 {
		t.Errorf("empty text parses = %v, want 1", got)
	}
}

func TestScanReport(t *testing.T) {
	ts := setupTestServer(t, &fakeEngine{text: report})

	resp, err := ts.client.ScanReport(context.Background(), connect.NewRequest(&api.ScanReportRequest{
		Image: []byte{0x89, 'P', 'N', 'G'},
	}))
	if err != nil {
		t.Fatalf("ScanReport failed: %v", err)
	}

	if resp.Msg.Error != "" {
		t.Errorf("unexpected scan error: %s", resp.Msg.Error)
	}
	if resp.Msg.Engine != "fake" {
		t.Errorf("engine = %q, want fake", resp.Msg.Engine)
	}
	if resp.Msg.RawText != report {
		t.Errorf("raw text not returned")
	}
	if len(resp.Msg.Partners) != 2 || resp.Msg.SuggestManualEntry {
		t.Errorf("expected 2 partners without manual entry, got %+v", resp.Msg.ParseReportResponse)
	}

	if got := testutil.ToFloat64(ts.metrics.ReportsParsed.WithLabelValues("image", metrics.OutcomeValid)); got != 1 {
		t.Errorf("valid image parses = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(ts.metrics.OCRDuration); got != 1 {
		t.Errorf("OCR duration series = %d, want 1", got)
	}
}

func TestScanReport_SuggestsManualEntry(t *testing.T) {
	tests := []struct {
		name   string
		engine ocr.Engine
	}{
		{"engine failure", &fakeEngine{err: errors.New("tesseract: cannot read image")}},
		{"no engine", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t, tt.engine)

			resp, err := ts.client.ScanReport(context.Background(), connect.NewRequest(&api.ScanReportRequest{
				Image: []byte("not really an image"),
			}))
			if err != nil {
				t.Fatalf("ScanReport should not fail the RPC, got: %v", err)
			}

			if !resp.Msg.SuggestManualEntry {
				t.Error("expected manual entry to be suggested")
			}
			if resp.Msg.Error == "" {
				t.Error("expected an error message")
			}
			if len(resp.Msg.Partners) != 0 {
				t.Errorf("expected no partners, got %+v", resp.Msg.Partners)
			}

			if got := testutil.ToFloat64(ts.metrics.ReportsParsed.WithLabelValues("image", metrics.OutcomeOCRFail)); got != 1 {
				t.Errorf("failed scans = %v, want 1", got)
			}
		})
	}
}

func TestScanReport_InvalidImage(t *testing.T) {
	ts := setupTestServer(t, &fakeEngine{text: report})
	ts.svc.SetMaxImageBytes(4)

	tests := []struct {
		name  string
		image []byte
	}{
		{"empty", nil},
		{"too large", []byte("12345")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.ScanReport(context.Background(), connect.NewRequest(&api.ScanReportRequest{Image: tt.image}))
			if err == nil {
				t.Fatal("expected error")
			}
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("code = %v, want InvalidArgument", connect.CodeOf(err))
			}
		})
	}
}

func TestParseManualEntry(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.client.ParseManualEntry(context.Background(), connect.NewRequest(&api.ParseManualEntryRequest{
		Text: "John Smith: 32.5\nnot a partner\nJane Doe: 28",
	}))
	if err != nil {
		t.Fatalf("ParseManualEntry failed: %v", err)
	}

	want := []models.PartnerHours{
		{Name: "John Smith", Hours: 32.5},
		{Name: "Jane Doe", Hours: 28},
	}
	if len(resp.Msg.Partners) != len(want) {
		t.Fatalf("expected %d partners, got %+v", len(want), resp.Msg.Partners)
	}
	for i := range want {
		if resp.Msg.Partners[i] != want[i] {
			t.Errorf("partner %d = %+v, want %+v", i, resp.Msg.Partners[i], want[i])
		}
	}
}

func TestCalculateDistribution(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.client.CalculateDistribution(context.Background(), connect.NewRequest(&api.CalculateDistributionRequest{
		TotalAmount: 100,
		PartnerHours: []models.PartnerHours{
			{Name: "Alice", Hours: 10},
			{Name: "Bob", Hours: 30},
		},
	}))
	if err != nil {
		t.Fatalf("CalculateDistribution failed: %v", err)
	}

	d := resp.Msg.Distribution
	if d.TotalHours != 40 || d.HourlyRate != 2.5 {
		t.Errorf("total hours = %v, rate = %v, want 40 and 2.5", d.TotalHours, d.HourlyRate)
	}
	if len(d.PartnerPayouts) != 2 {
		t.Fatalf("expected 2 payouts, got %d", len(d.PartnerPayouts))
	}
	if d.PartnerPayouts[0].Rounded != 25 || d.PartnerPayouts[1].Rounded != 75 {
		t.Errorf("rounded payouts = %d, %d, want 25, 75", d.PartnerPayouts[0].Rounded, d.PartnerPayouts[1].Rounded)
	}

	wantBills := []models.BillBreakdownEntry{
		{Denomination: 20, Quantity: 4},
		{Denomination: 10, Quantity: 1},
		{Denomination: 5, Quantity: 2},
	}
	if len(resp.Msg.BillsNeeded) != len(wantBills) {
		t.Fatalf("bills needed = %+v, want %+v", resp.Msg.BillsNeeded, wantBills)
	}
	for i := range wantBills {
		if resp.Msg.BillsNeeded[i] != wantBills[i] {
			t.Errorf("bills needed[%d] = %+v, want %+v", i, resp.Msg.BillsNeeded[i], wantBills[i])
		}
	}

	if got := testutil.ToFloat64(ts.metrics.DistributedDollars); got != 100 {
		t.Errorf("distributed dollars = %v, want 100", got)
	}
}

func TestCalculateDistribution_InvalidInput(t *testing.T) {
	ts := setupTestServer(t, nil)

	tests := []struct {
		name string
		req  *api.CalculateDistributionRequest
	}{
		{"no partners", &api.CalculateDistributionRequest{TotalAmount: 100}},
		{"negative total", &api.CalculateDistributionRequest{
			TotalAmount:  -5,
			PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 10}},
		}},
		{"zero hours", &api.CalculateDistributionRequest{
			TotalAmount:  100,
			PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 0}},
		}},
		{"blank name", &api.CalculateDistributionRequest{
			TotalAmount:  100,
			PartnerHours: []models.PartnerHours{{Name: "", Hours: 4}},
		}},
		{"huge total", &api.CalculateDistributionRequest{
			TotalAmount:  1e20,
			PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 10}},
		}},
		{"hours at limit", &api.CalculateDistributionRequest{
			TotalAmount:  100,
			PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 200}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.CalculateDistribution(context.Background(), connect.NewRequest(tt.req))
			if err == nil {
				t.Fatal("expected error")
			}
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("code = %v, want InvalidArgument", connect.CodeOf(err))
			}
		})
	}

	if got := testutil.ToFloat64(ts.metrics.DistributionsTotal); got != 0 {
		t.Errorf("rejected requests counted as distributions: %v", got)
	}
}

func TestSaveDistribution_RejectsHugeTotal(t *testing.T) {
	ts := setupTestServer(t, nil)
	ctx := context.Background()

	_, err := ts.client.SaveDistribution(ctx, connect.NewRequest(&api.SaveDistributionRequest{
		TotalAmount:  1e20,
		PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 10}},
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument (err: %v)", connect.CodeOf(err), err)
	}

	list, err := ts.client.ListDistributions(ctx, connect.NewRequest(&api.ListDistributionsRequest{}))
	if err != nil {
		t.Fatalf("ListDistributions failed: %v", err)
	}
	if len(list.Msg.Distributions) != 0 {
		t.Errorf("expected nothing saved, got %d distributions", len(list.Msg.Distributions))
	}
}

func TestDistributionHistory(t *testing.T) {
	ts := setupTestServer(t, nil)
	ctx := context.Background()

	first, err := ts.client.SaveDistribution(ctx, connect.NewRequest(&api.SaveDistributionRequest{
		TotalAmount:  523,
		PartnerHours: []models.PartnerHours{{Name: "Ailuogwemhe, Jodie O", Hours: 27.10}, {Name: "Bradley, Kay M", Hours: 13.35}},
	}))
	if err != nil {
		t.Fatalf("SaveDistribution failed: %v", err)
	}
	if first.Msg.Distribution.ID == "" {
		t.Fatal("expected an ID")
	}
	if first.Msg.Distribution.CreatedAt == 0 {
		t.Error("expected a creation time")
	}

	if _, err := ts.client.SaveDistribution(ctx, connect.NewRequest(&api.SaveDistributionRequest{
		TotalAmount:  60,
		PartnerHours: []models.PartnerHours{{Name: "Alice", Hours: 6}},
	})); err != nil {
		t.Fatalf("SaveDistribution failed: %v", err)
	}

	list, err := ts.client.ListDistributions(ctx, connect.NewRequest(&api.ListDistributionsRequest{}))
	if err != nil {
		t.Fatalf("ListDistributions failed: %v", err)
	}
	if len(list.Msg.Distributions) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(list.Msg.Distributions))
	}

	got, err := ts.client.GetDistribution(ctx, connect.NewRequest(&api.GetDistributionRequest{ID: first.Msg.Distribution.ID}))
	if err != nil {
		t.Fatalf("GetDistribution failed: %v", err)
	}
	d := got.Msg.Distribution
	if d.TotalAmount != 523 || len(d.PartnerPayouts) != 2 {
		t.Fatalf("unexpected distribution: %+v", d)
	}
	if d.PartnerPayouts[1].Name != "Bradley, Kay M" {
		t.Errorf("payout order not preserved: %+v", d.PartnerPayouts)
	}
	for _, p := range d.PartnerPayouts {
		var sum int
		for _, b := range p.BillBreakdown {
			sum += b.Denomination * b.Quantity
		}
		if sum != p.Rounded {
			t.Errorf("%s: bills sum to %d, rounded is %d", p.Name, sum, p.Rounded)
		}
	}
	if len(got.Msg.BillsNeeded) == 0 {
		t.Error("expected bills needed")
	}
}

func TestGetDistribution_Errors(t *testing.T) {
	ts := setupTestServer(t, nil)

	tests := []struct {
		name string
		id   string
		code connect.Code
	}{
		{"missing id", "", connect.CodeInvalidArgument},
		{"unknown id", "does-not-exist", connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.GetDistribution(context.Background(), connect.NewRequest(&api.GetDistributionRequest{ID: tt.id}))
			if err == nil {
				t.Fatal("expected error")
			}
			if connect.CodeOf(err) != tt.code {
				t.Errorf("code = %v, want %v", connect.CodeOf(err), tt.code)
			}
		})
	}
}

func TestPartners(t *testing.T) {
	ts := setupTestServer(t, nil)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"  Bradley,   Kay M ", "Ailuogwemhe, Jodie O"} {
		resp, err := ts.client.CreatePartner(ctx, connect.NewRequest(&api.CreatePartnerRequest{Name: name}))
		if err != nil {
			t.Fatalf("CreatePartner(%q) failed: %v", name, err)
		}
		ids = append(ids, resp.Msg.Partner.ID)
	}

	got, err := ts.client.GetPartner(ctx, connect.NewRequest(&api.GetPartnerRequest{ID: ids[0]}))
	if err != nil {
		t.Fatalf("GetPartner failed: %v", err)
	}
	if got.Msg.Partner.Name != "Bradley, Kay M" {
		t.Errorf("GetPartner name = %q, want normalized %q", got.Msg.Partner.Name, "Bradley, Kay M")
	}

	_, err = ts.client.CreatePartner(ctx, connect.NewRequest(&api.CreatePartnerRequest{Name: "   "}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("blank name: code = %v, want InvalidArgument", connect.CodeOf(err))
	}

	resp, err := ts.client.ListPartners(ctx, connect.NewRequest(&api.ListPartnersRequest{}))
	if err != nil {
		t.Fatalf("ListPartners failed: %v", err)
	}
	if len(resp.Msg.Partners) != 2 {
		t.Fatalf("expected 2 partners, got %d", len(resp.Msg.Partners))
	}
	if resp.Msg.Partners[0].Name != "Ailuogwemhe, Jodie O" || resp.Msg.Partners[1].Name != "Bradley, Kay M" {
		t.Errorf("unexpected roster: %s, %s", resp.Msg.Partners[0].Name, resp.Msg.Partners[1].Name)
	}
}

func TestGetPartner_Errors(t *testing.T) {
	ts := setupTestServer(t, nil)

	tests := []struct {
		name string
		id   string
		code connect.Code
	}{
		{"missing id", "", connect.CodeInvalidArgument},
		{"unknown id", "does-not-exist", connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.GetPartner(context.Background(), connect.NewRequest(&api.GetPartnerRequest{ID: tt.id}))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("code = %v, want %v", connect.CodeOf(err), tt.code)
			}
		})
	}
}
