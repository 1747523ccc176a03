package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/costwatch/costwatch/internal/analysis"
	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/recommend"
	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/metrics"
)

// TrendService loads daily cost series and analyzes them
type TrendService struct {
	logger  *logging.Logger
	loader  loader.Loader
	cfg     config.AnalysisConfig
	metrics *metrics.Metrics
	alerts  *AlertPublisher
	now     func() time.Time
}

// Option configures a TrendService.
type Option func(*TrendService)

// WithConfig sets the request defaults and limits.
func WithConfig(cfg config.AnalysisConfig) Option {
	return func(s *TrendService) { s.cfg = cfg }
}

// WithMetrics records analyses on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TrendService) { s.metrics = m }
}

// WithAlerts publishes analysis events through a.
func WithAlerts(a *AlertPublisher) Option {
	return func(s *TrendService) { s.alerts = a }
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *TrendService) { s.now = now }
}

// NewTrendService creates a new TrendService
func NewTrendService(logger *logging.Logger, l loader.Loader, opts ...Option) *TrendService {
	s := &TrendService{
		logger: logger,
		loader: l,
		cfg:    config.DefaultConfig().Analysis,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeRequest represents a trend analysis request.
// Zero DaysBack or ForecastDays select the configured defaults.
type AnalyzeRequest struct {
	Service      string
	DaysBack     int
	ForecastDays int
}

func (s *TrendService) normalize(req AnalyzeRequest) (AnalyzeRequest, error) {
	if req.DaysBack < 0 || req.DaysBack > s.cfg.MaxDaysBack {
		return req, NewServiceErrorWithDetails(CodeInvalidRequest, "days_back out of range", map[string]interface{}{
			"days_back": req.DaysBack,
			"max":       s.cfg.MaxDaysBack,
		})
	}
	if req.ForecastDays < 0 || req.ForecastDays > s.cfg.MaxForecastDays {
		return req, NewServiceErrorWithDetails(CodeInvalidRequest, "forecast_days out of range", map[string]interface{}{
			"forecast_days": req.ForecastDays,
			"max":           s.cfg.MaxForecastDays,
		})
	}
	req.DaysBack = s.cfg.ClampDaysBack(req.DaysBack)
	req.ForecastDays = s.cfg.ClampForecastDays(req.ForecastDays)
	return req, nil
}

// AnalyzeTrends loads [today - days_back, today) for the service and runs
// every analysis over it.
func (s *TrendService) AnalyzeTrends(ctx context.Context, req AnalyzeRequest) (*analysis.Result, error) {
	startExec := time.Now()

	req, err := s.normalize(req)
	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeInvalidRequest, 0, time.Since(startExec))
		return nil, err
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	if req.Service != "" {
		ctx = logging.WithService(ctx, req.Service)
	}
	log := s.logger.WithContext(ctx)

	end := analytics.Day(s.now())
	start := end.AddDate(0, 0, -req.DaysBack)

	series, err := s.loader.LoadDailyCosts(ctx, req.Service, start, end)
	if err != nil {
		log.Error("Failed to load daily costs", "error", err, "start", start.Format(analytics.DateLayout), "end", end.Format(analytics.DateLayout))
		s.metrics.ObserveAnalysis(metrics.OutcomeUpstreamFailure, 0, time.Since(startExec))
		return nil, &ServiceError{
			Code:    CodeUpstreamFailure,
			Message: "Failed to load daily costs",
			Details: map[string]interface{}{"error": err.Error()},
			Err:     errors.Join(analytics.ErrUpstreamFailure, err),
		}
	}

	result, err := analysis.Run(series, analysis.Options{
		Service:      req.Service,
		ForecastDays: req.ForecastDays,
		Parallel:     s.cfg.Parallel,
	})
	if err != nil {
		se := classify(err)
		if se.Code == CodeInsufficientData {
			se.Details = map[string]interface{}{
				"points":   series.Len(),
				"required": analysis.MinPoints,
			}
			s.metrics.ObserveAnalysis(metrics.OutcomeInsufficientData, series.Len(), time.Since(startExec))
		} else {
			s.metrics.ObserveAnalysis(metrics.OutcomeInvalidRequest, series.Len(), time.Since(startExec))
		}
		log.Warn("Trend analysis rejected", "code", se.Code, "error", err, "points", series.Len())
		return nil, se
	}
	result.RunID = runID

	for section, reason := range unavailableReasons(result) {
		log.Warn("Analysis section unavailable", "section", section, "reason", reason)
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeOK, series.Len(), time.Since(startExec))
	s.metrics.ObserveUnavailable(result.Summary.Unavailable)
	for _, a := range result.Anomalies {
		s.metrics.ObserveAnomaly(a.Severity)
	}

	if s.alerts != nil {
		s.alerts.PublishAnalysis(ctx, result)
	}

	log.Info("Trend analysis completed",
		"points", series.Len(),
		"days_back", req.DaysBack,
		"forecast_days", req.ForecastDays,
		"anomalies", len(result.Anomalies),
		"unavailable", result.Summary.Unavailable,
		"latency_ms", time.Since(startExec).Milliseconds(),
	)

	return result, nil
}

// GenerateRecommendations derives the recommendation set from a completed
// analysis. A nil result yields an empty set.
func (s *TrendService) GenerateRecommendations(result *analysis.Result) recommend.Set {
	var in recommend.Input
	if result != nil {
		in = result.RecommendationInput()
	}
	set := recommend.Generate(in)
	s.metrics.ObserveRecommendations(set.Counts.High, set.Counts.Medium, set.Counts.Low)
	return set
}

// unavailableReasons maps each unavailable section to the reason recorded for it.
func unavailableReasons(r *analysis.Result) map[string]string {
	reasons := make(map[string]string)
	add := func(section string, available bool, reason string) {
		if !available {
			reasons[section] = reason
		}
	}
	add(analysis.SectionTrendComponents, r.TrendComponents.Available(), r.TrendComponents.Reason)
	add(analysis.SectionTrendMetrics, r.TrendMetrics.Available(), r.TrendMetrics.Reason)
	add(analysis.SectionForecasts, r.Forecasts.Available(), r.Forecasts.Reason)
	add(analysis.SectionChangePoints, r.ChangePoints.Available(), r.ChangePoints.Reason)
	add(analysis.SectionVolatility, r.VolatilityAnalysis.Available(), r.VolatilityAnalysis.Reason)
	return reasons
}
