// Package metrics instruments upstream searches with Prometheus metrics and
// OpenTelemetry spans.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
)

const tracerName = "holmes-dashboard"

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics holds the search metrics.
type Metrics struct {
	SearchRequests  *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	SearchDocuments *prometheus.GaugeVec
}

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the search metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "holmes_search_requests_total",
			Help: "Total upstream search requests by status category and outcome",
		}, []string{"status_category", "outcome"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "holmes_search_duration_seconds",
			Help:    "Upstream search latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"status_category"}),
		SearchDocuments: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "holmes_search_documents",
			Help: "Documents returned by the last successful search",
		}, []string{"status_category"}),
	}
}

// Handler serves reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// RecordSearch records one search call.
func (m *Metrics) RecordSearch(status holmes.Status, duration time.Duration, documents int, err error) {
	label := string(status)
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	m.SearchRequests.WithLabelValues(label, outcome).Inc()
	m.SearchDuration.WithLabelValues(label).Observe(duration.Seconds())
	if err == nil {
		m.SearchDocuments.WithLabelValues(label).Set(float64(documents))
	}
}

// InstrumentedSearcher wraps a searcher with metrics and tracing.
type InstrumentedSearcher struct {
	next    dashboard.Searcher
	metrics *Metrics
	tracer  trace.Tracer
}

// NewInstrumentedSearcher registers the search metrics on reg and wraps next.
func NewInstrumentedSearcher(next dashboard.Searcher, reg prometheus.Registerer) *InstrumentedSearcher {
	return &InstrumentedSearcher{
		next:    next,
		metrics: New(reg),
		tracer:  otel.Tracer(tracerName),
	}
}

// Search implements dashboard.Searcher.
func (s *InstrumentedSearcher) Search(ctx context.Context, status holmes.Status, pageNumber int) ([]holmes.RawDocument, error) {
	ctx, span := s.tracer.Start(ctx, "holmes.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("holmes.status", string(status)),
			attribute.Int("holmes.page", pageNumber),
		),
	)
	defer span.End()

	start := time.Now()
	docs, err := s.next.Search(ctx, status, pageNumber)
	s.metrics.RecordSearch(status, time.Since(start), len(docs), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("holmes.documents", len(docs)))
	return docs, nil
}
