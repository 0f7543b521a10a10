// Package apiconnect wires the TipService messages to Connect handlers and
// clients using a JSON codec.
package apiconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/sbuxpartner/sbuxpartners/pkg/api"
)

// TipServiceName is the fully-qualified name of the TipService.
const TipServiceName = "sbuxpartners.v1.TipService"

// Procedure paths of the TipService RPCs.
const (
	TipServiceParseReportProcedure           = "/sbuxpartners.v1.TipService/ParseReport"
	TipServiceScanReportProcedure            = "/sbuxpartners.v1.TipService/ScanReport"
	TipServiceParseManualEntryProcedure      = "/sbuxpartners.v1.TipService/ParseManualEntry"
	TipServiceCalculateDistributionProcedure = "/sbuxpartners.v1.TipService/CalculateDistribution"
	TipServiceSaveDistributionProcedure      = "/sbuxpartners.v1.TipService/SaveDistribution"
	TipServiceGetDistributionProcedure       = "/sbuxpartners.v1.TipService/GetDistribution"
	TipServiceListDistributionsProcedure     = "/sbuxpartners.v1.TipService/ListDistributions"
	TipServiceCreatePartnerProcedure         = "/sbuxpartners.v1.TipService/CreatePartner"
	TipServiceGetPartnerProcedure            = "/sbuxpartners.v1.TipService/GetPartner"
	TipServiceListPartnersProcedure          = "/sbuxpartners.v1.TipService/ListPartners"
)

// jsonCodec marshals plain Go structs. It replaces Connect's protobuf JSON
// codec, which only accepts generated messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

// TipServiceHandler is implemented by the server.
type TipServiceHandler interface {
	ParseReport(context.Context, *connect.Request[api.ParseReportRequest]) (*connect.Response[api.ParseReportResponse], error)
	ScanReport(context.Context, *connect.Request[api.ScanReportRequest]) (*connect.Response[api.ScanReportResponse], error)
	ParseManualEntry(context.Context, *connect.Request[api.ParseManualEntryRequest]) (*connect.Response[api.ParseManualEntryResponse], error)
	CalculateDistribution(context.Context, *connect.Request[api.CalculateDistributionRequest]) (*connect.Response[api.CalculateDistributionResponse], error)
	SaveDistribution(context.Context, *connect.Request[api.SaveDistributionRequest]) (*connect.Response[api.SaveDistributionResponse], error)
	GetDistribution(context.Context, *connect.Request[api.GetDistributionRequest]) (*connect.Response[api.GetDistributionResponse], error)
	ListDistributions(context.Context, *connect.Request[api.ListDistributionsRequest]) (*connect.Response[api.ListDistributionsResponse], error)
	CreatePartner(context.Context, *connect.Request[api.CreatePartnerRequest]) (*connect.Response[api.CreatePartnerResponse], error)
	GetPartner(context.Context, *connect.Request[api.GetPartnerRequest]) (*connect.Response[api.GetPartnerResponse], error)
	ListPartners(context.Context, *connect.Request[api.ListPartnersRequest]) (*connect.Response[api.ListPartnersResponse], error)
}

// NewTipServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTipServiceHandler(svc TipServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TipServiceParseReportProcedure, connect.NewUnaryHandler(TipServiceParseReportProcedure, svc.ParseReport, opts...))
	mux.Handle(TipServiceScanReportProcedure, connect.NewUnaryHandler(TipServiceScanReportProcedure, svc.ScanReport, opts...))
	mux.Handle(TipServiceParseManualEntryProcedure, connect.NewUnaryHandler(TipServiceParseManualEntryProcedure, svc.ParseManualEntry, opts...))
	mux.Handle(TipServiceCalculateDistributionProcedure, connect.NewUnaryHandler(TipServiceCalculateDistributionProcedure, svc.CalculateDistribution, opts...))
	mux.Handle(TipServiceSaveDistributionProcedure, connect.NewUnaryHandler(TipServiceSaveDistributionProcedure, svc.SaveDistribution, opts...))
	mux.Handle(TipServiceGetDistributionProcedure, connect.NewUnaryHandler(TipServiceGetDistributionProcedure, svc.GetDistribution, opts...))
	mux.Handle(TipServiceListDistributionsProcedure, connect.NewUnaryHandler(TipServiceListDistributionsProcedure, svc.ListDistributions, opts...))
	mux.Handle(TipServiceCreatePartnerProcedure, connect.NewUnaryHandler(TipServiceCreatePartnerProcedure, svc.CreatePartner, opts...))
	mux.Handle(TipServiceGetPartnerProcedure, connect.NewUnaryHandler(TipServiceGetPartnerProcedure, svc.GetPartner, opts...))
	mux.Handle(TipServiceListPartnersProcedure, connect.NewUnaryHandler(TipServiceListPartnersProcedure, svc.ListPartners, opts...))

	return "/" + TipServiceName + "/", mux
}

// TipServiceClient is a client for the TipService.
type TipServiceClient struct {
	parseReport           *connect.Client[api.ParseReportRequest, api.ParseReportResponse]
	scanReport            *connect.Client[api.ScanReportRequest, api.ScanReportResponse]
	parseManualEntry      *connect.Client[api.ParseManualEntryRequest, api.ParseManualEntryResponse]
	calculateDistribution *connect.Client[api.CalculateDistributionRequest, api.CalculateDistributionResponse]
	saveDistribution      *connect.Client[api.SaveDistributionRequest, api.SaveDistributionResponse]
	getDistribution       *connect.Client[api.GetDistributionRequest, api.GetDistributionResponse]
	listDistributions     *connect.Client[api.ListDistributionsRequest, api.ListDistributionsResponse]
	createPartner         *connect.Client[api.CreatePartnerRequest, api.CreatePartnerResponse]
	getPartner            *connect.Client[api.GetPartnerRequest, api.GetPartnerResponse]
	listPartners          *connect.Client[api.ListPartnersRequest, api.ListPartnersResponse]
}

// NewTipServiceClient constructs a client for the TipService at baseURL
// (e.g., http://localhost:8080).
func NewTipServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TipServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &TipServiceClient{
		parseReport:           connect.NewClient[api.ParseReportRequest, api.ParseReportResponse](httpClient, baseURL+TipServiceParseReportProcedure, opts...),
		scanReport:            connect.NewClient[api.ScanReportRequest, api.ScanReportResponse](httpClient, baseURL+TipServiceScanReportProcedure, opts...),
		parseManualEntry:      connect.NewClient[api.ParseManualEntryRequest, api.ParseManualEntryResponse](httpClient, baseURL+TipServiceParseManualEntryProcedure, opts...),
		calculateDistribution: connect.NewClient[api.CalculateDistributionRequest, api.CalculateDistributionResponse](httpClient, baseURL+TipServiceCalculateDistributionProcedure, opts...),
		saveDistribution:      connect.NewClient[api.SaveDistributionRequest, api.SaveDistributionResponse](httpClient, baseURL+TipServiceSaveDistributionProcedure, opts...),
		getDistribution:       connect.NewClient[api.GetDistributionRequest, api.GetDistributionResponse](httpClient, baseURL+TipServiceGetDistributionProcedure, opts...),
		listDistributions:     connect.NewClient[api.ListDistributionsRequest, api.ListDistributionsResponse](httpClient, baseURL+TipServiceListDistributionsProcedure, opts...),
		createPartner:         connect.NewClient[api.CreatePartnerRequest, api.CreatePartnerResponse](httpClient, baseURL+TipServiceCreatePartnerProcedure, opts...),
		getPartner:            connect.NewClient[api.GetPartnerRequest, api.GetPartnerResponse](httpClient, baseURL+TipServiceGetPartnerProcedure, opts...),
		listPartners:          connect.NewClient[api.ListPartnersRequest, api.ListPartnersResponse](httpClient, baseURL+TipServiceListPartnersProcedure, opts...),
	}
}

func (c *TipServiceClient) ParseReport(ctx context.Context, req *connect.Request[api.ParseReportRequest]) (*connect.Response[api.ParseReportResponse], error) {
	return c.parseReport.CallUnary(ctx, req)
}

func (c *TipServiceClient) ScanReport(ctx context.Context, req *connect.Request[api.ScanReportRequest]) (*connect.Response[api.ScanReportResponse], error) {
	return c.scanReport.CallUnary(ctx, req)
}

func (c *TipServiceClient) ParseManualEntry(ctx context.Context, req *connect.Request[api.ParseManualEntryRequest]) (*connect.Response[api.ParseManualEntryResponse], error) {
	return c.parseManualEntry.CallUnary(ctx, req)
}

func (c *TipServiceClient) CalculateDistribution(ctx context.Context, req *connect.Request[api.CalculateDistributionRequest]) (*connect.Response[api.CalculateDistributionResponse], error) {
	return c.calculateDistribution.CallUnary(ctx, req)
}

func (c *TipServiceClient) SaveDistribution(ctx context.Context, req *connect.Request[api.SaveDistributionRequest]) (*connect.Response[api.SaveDistributionResponse], error) {
	return c.saveDistribution.CallUnary(ctx, req)
}

func (c *TipServiceClient) GetDistribution(ctx context.Context, req *connect.Request[api.GetDistributionRequest]) (*connect.Response[api.GetDistributionResponse], error) {
	return c.getDistribution.CallUnary(ctx, req)
}

func (c *TipServiceClient) ListDistributions(ctx context.Context, req *connect.Request[api.ListDistributionsRequest]) (*connect.Response[api.ListDistributionsResponse], error) {
	return c.listDistributions.CallUnary(ctx, req)
}

func (c *TipServiceClient) CreatePartner(ctx context.Context, req *connect.Request[api.CreatePartnerRequest]) (*connect.Response[api.CreatePartnerResponse], error) {
	return c.createPartner.CallUnary(ctx, req)
}

func (c *TipServiceClient) GetPartner(ctx context.Context, req *connect.Request[api.GetPartnerRequest]) (*connect.Response[api.GetPartnerResponse], error) {
	return c.getPartner.CallUnary(ctx, req)
}

func (c *TipServiceClient) ListPartners(ctx context.Context, req *connect.Request[api.ListPartnersRequest]) (*connect.Response[api.ListPartnersResponse], error) {
	return c.listPartners.CallUnary(ctx, req)
}
