// Package metrics holds the Prometheus collectors for analysis runs, cache
// lookups and alert publishing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "costwatch"

// Analysis outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeUpstreamFailure  = "upstream_failure"
	OutcomeInvalidRequest   = "invalid_request"
)

// Metrics holds all Prometheus collectors for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnalysisTotal      *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	SeriesPoints       prometheus.Histogram
	SectionUnavailable *prometheus.CounterVec
	AnomaliesDetected  *prometheus.CounterVec
	Recommendations    *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	AlertsPublished    *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry that also
// carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry creates and registers all metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		AnalysisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_total",
				Help:      "Number of trend analyses by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a trend analysis including the series load",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		SeriesPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "series_points",
			Help:      "Number of daily points in analyzed series",
			Buckets:   []float64{7, 14, 30, 60, 90, 180, 365, 730},
		}),
		SectionUnavailable: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "section_unavailable_total",
				Help:      "Analysis sections reported unavailable",
			},
			[]string{"section"},
		),
		AnomaliesDetected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_detected_total",
				Help:      "Anomalies reported by completed analyses",
			},
			[]string{"severity"},
		),
		Recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Recommendations generated by priority",
			},
			[]string{"priority"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_cache_lookups_total",
				Help:      "Series cache lookups by layer and result",
			},
			[]string{"layer", "result"},
		),
		AlertsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_published_total",
				Help:      "Alert events by publish result",
			},
			[]string{"result"},
		),
	}
}

// ObserveAnalysis records one analysis attempt.
func (m *Metrics) ObserveAnalysis(outcome string, points int, took time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(took.Seconds())
	if outcome == OutcomeOK {
		m.SeriesPoints.Observe(float64(points))
	}
}

// ObserveUnavailable records sections missing from a completed analysis.
func (m *Metrics) ObserveUnavailable(sections []string) {
	if m == nil {
		return
	}
	for _, s := range sections {
		m.SectionUnavailable.WithLabelValues(s).Inc()
	}
}

// ObserveAnomaly records one reported anomaly.
func (m *Metrics) ObserveAnomaly(severity int) {
	if m == nil {
		return
	}
	m.AnomaliesDetected.WithLabelValues(strconv.Itoa(severity)).Inc()
}

// ObserveRecommendations adds generated recommendation counts.
func (m *Metrics) ObserveRecommendations(high, medium, low int) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues("high").Add(float64(high))
	m.Recommendations.WithLabelValues("medium").Add(float64(medium))
	m.Recommendations.WithLabelValues("low").Add(float64(low))
}

// CacheLookup records a series cache lookup. Its signature matches loader.LookupFunc.
func (m *Metrics) CacheLookup(layer string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(layer, result).Inc()
}

// AlertsSent records the outcome of one alert batch.
func (m *Metrics) AlertsSent(published, failed int) {
	if m == nil {
		return
	}
	m.AlertsPublished.WithLabelValues("ok").Add(float64(published))
	m.AlertsPublished.WithLabelValues("error").Add(float64(failed))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
