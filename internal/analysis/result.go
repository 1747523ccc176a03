// Package analysis assembles every analytics section for one cost series into
// a single Result.
package analysis

import (
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/anomaly"
	"github.com/costwatch/costwatch/internal/analytics/changepoint"
	"github.com/costwatch/costwatch/internal/analytics/forecast"
	"github.com/costwatch/costwatch/internal/analytics/recommend"
	"github.com/costwatch/costwatch/internal/analytics/trend"
	"github.com/costwatch/costwatch/internal/analytics/volatility"
)

// Section names used in Summary.Unavailable.
const (
	SectionTrendComponents = "trend_components"
	SectionTrendMetrics    = "trend_metrics"
	SectionForecasts       = "forecasts"
	SectionChangePoints    = "change_points"
	SectionVolatility      = "volatility_analysis"
)

// Period is the date range an analysis covers.
type Period struct {
	Service string    `json:"service,omitempty"`
	Start   time.Time `json:"start_date"`
	End     time.Time `json:"end_date"`
	Days    int       `json:"days"`
}

// Result is the full analysis of one series.
type Result struct {
	RunID              string                                        `json:"run_id,omitempty"`
	AnalysisPeriod     Period                                        `json:"analysis_period"`
	TrendComponents    analytics.Optional[trend.Decomposition]       `json:"trend_components"`
	Seasonality        trend.SeasonalityReport                       `json:"seasonality"`
	TrendMetrics       analytics.Optional[trend.Metrics]             `json:"trend_metrics"`
	Forecasts          analytics.Optional[forecast.Report]           `json:"forecasts"`
	Anomalies          []anomaly.Anomaly                             `json:"anomalies"`
	ChangePoints       analytics.Optional[[]changepoint.ChangePoint] `json:"change_points"`
	VolatilityAnalysis analytics.Optional[volatility.Profile]        `json:"volatility_analysis"`
	Summary            Summary                                       `json:"summary"`
}

// RecommendationInput exposes the sections the recommendation rules read.
// Unavailable sections are passed as nil.
func (r *Result) RecommendationInput() recommend.Input {
	in := recommend.Input{
		AverageDailyCost: r.Summary.AverageDailyCost,
		Seasonality:      &r.Seasonality,
		Anomalies:        r.Anomalies,
		Trend:            r.TrendMetrics.Value,
		Volatility:       r.VolatilityAnalysis.Value,
	}
	if report, ok := r.Forecasts.Get(); ok {
		in.Forecast = &report.Ensemble
	}
	if points, ok := r.ChangePoints.Get(); ok {
		in.ChangePoints = points
	}
	return in
}
