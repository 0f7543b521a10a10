// Package metrics exposes Prometheus instruments for report parsing and
// tip distribution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes.
const (
	OutcomeValid   = "valid"
	OutcomeReview  = "review"
	OutcomeEmpty   = "empty"
	OutcomeOCRFail = "ocr_failed"
)

// Metrics holds the service's collectors. Each Metrics owns its registry so
// tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	ReportsParsed      *prometheus.CounterVec
	ParseConfidence    prometheus.Histogram
	PartnersPerReport  prometheus.Histogram
	DistributionsTotal prometheus.Counter
	DistributedDollars prometheus.Counter
	OCRDuration        *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReportsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbuxpartners",
			Name:      "reports_parsed_total",
			Help:      "Reports parsed, by outcome (valid, review, empty, ocr_failed).",
		}, []string{"source", "outcome"}),
		ParseConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sbuxpartners",
			Name:      "parse_confidence",
			Help:      "Confidence score of parsed reports.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		PartnersPerReport: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sbuxpartners",
			Name:      "partners_per_report",
			Help:      "Unique partners recovered per parsed report.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 40},
		}),
		DistributionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbuxpartners",
			Name:      "distributions_calculated_total",
			Help:      "Tip distributions calculated.",
		}),
		DistributedDollars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbuxpartners",
			Name:      "distributed_dollars_total",
			Help:      "Whole dollars paid out across calculated distributions.",
		}),
		OCRDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sbuxpartners",
			Name:      "ocr_duration_seconds",
			Help:      "Time spent in the OCR engine.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
		}, []string{"engine"}),
	}

	m.registry.MustRegister(
		m.ReportsParsed,
		m.ParseConfidence,
		m.PartnersPerReport,
		m.DistributionsTotal,
		m.DistributedDollars,
		m.OCRDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveParse records one parsed report.
func (m *Metrics) ObserveParse(source, outcome string, confidence, partners int) {
	m.ReportsParsed.WithLabelValues(source, outcome).Inc()
	if outcome == OutcomeOCRFail {
		return
	}
	m.ParseConfidence.Observe(float64(confidence))
	m.PartnersPerReport.Observe(float64(partners))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
