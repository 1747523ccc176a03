package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/forecast"
	"github.com/costwatch/costwatch/internal/analytics/trend"
)

var testBaseDate = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func makeSeries(t *testing.T, costs []float64) analytics.Series {
	t.Helper()
	points := make([]analytics.CostPoint, len(costs))
	for i, c := range costs {
		points[i] = analytics.CostPoint{Date: testBaseDate.AddDate(0, 0, i), Cost: c, TransactionCount: 10}
	}
	s, err := analytics.NewSeries(points)
	require.NoError(t, err)
	return s
}

func linear(n int, intercept, slope float64) []float64 {
	costs := make([]float64, n)
	for i := range costs {
		costs[i] = intercept + slope*float64(i)
	}
	return costs
}

func TestRun_ConstantSeries(t *testing.T) {
	r, err := Run(makeSeries(t, linear(14, 100, 0)), Options{ForecastDays: 7})
	require.NoError(t, err)

	d, ok := r.TrendComponents.Get()
	require.True(t, ok)
	assert.InDelta(t, 1.0, d.Quality, 1e-12)
	assert.False(t, r.Seasonality.HasSeasonality)
	assert.Empty(t, r.Anomalies)

	m, ok := r.TrendMetrics.Get()
	require.True(t, ok)
	assert.Equal(t, trend.DirectionStable, m.Direction)
	assert.Equal(t, trend.DirectionStable, r.Summary.TrendDirection)
}

func TestRun_ShortSeriesMarksDecompositionUnavailable(t *testing.T) {
	r, err := Run(makeSeries(t, linear(10, 100, 3)), Options{ForecastDays: 5})
	require.NoError(t, err)

	assert.False(t, r.TrendComponents.Available())
	assert.Contains(t, r.TrendComponents.Reason, "insufficient data")
	assert.Contains(t, r.Summary.Unavailable, SectionTrendComponents)
	assert.True(t, r.Forecasts.Available())
	assert.True(t, r.ChangePoints.Available())
}

func TestRun_IncreasingSeries(t *testing.T) {
	r, err := Run(makeSeries(t, linear(30, 100, 10)), Options{ForecastDays: 7})
	require.NoError(t, err)

	m, ok := r.TrendMetrics.Get()
	require.True(t, ok)
	assert.Equal(t, trend.DirectionIncreasing, m.Direction)

	report, ok := r.Forecasts.Get()
	require.True(t, ok)
	linearResult, ok := report.Methods[forecast.MethodLinearTrend].Get()
	require.True(t, ok)
	assert.InDelta(t, 1.0, linearResult.QualityMetric, 1e-9)

	values := report.Ensemble.Values
	require.Len(t, values, 7)
	for h := 1; h < len(values); h++ {
		assert.Greater(t, values[h], values[h-1], "day %d", h)
	}
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(makeSeries(t, linear(6, 100, 1)), Options{ForecastDays: 7})
	assert.ErrorIs(t, err, analytics.ErrInsufficientData)

	_, err = Run(makeSeries(t, linear(10, 100, 1)), Options{ForecastDays: 0})
	assert.ErrorIs(t, err, forecast.ErrInvalidHorizon)
}

func TestRun_ZeroCostSeries(t *testing.T) {
	r, err := Run(makeSeries(t, linear(12, 0, 0)), Options{ForecastDays: 3})
	require.NoError(t, err)

	assert.False(t, r.VolatilityAnalysis.Available())
	assert.Contains(t, r.Summary.Unavailable, SectionVolatility)
	assert.Equal(t, 0.0, r.Summary.TotalCost)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	costs := []float64{120, 95, 143, 88, 130, 101, 77, 150, 99, 112, 140, 83, 97, 125, 118, 500, 104, 91, 133, 128}
	seq, err := Run(makeSeries(t, costs), Options{ForecastDays: 14})
	require.NoError(t, err)
	par, err := Run(makeSeries(t, costs), Options{ForecastDays: 14, Parallel: true})
	require.NoError(t, err)
	again, err := Run(makeSeries(t, costs), Options{ForecastDays: 14})
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(seq, par), "parallel run differs from sequential run")
	assert.True(t, reflect.DeepEqual(seq, again), "repeated run differs")
}

func TestRun_Summary(t *testing.T) {
	costs := linear(20, 50, 5)
	r, err := Run(makeSeries(t, costs), Options{Service: "compute", ForecastDays: 10})
	require.NoError(t, err)

	s := r.Summary
	assert.Equal(t, 20, s.Days)
	assert.InDelta(t, 1950.0, s.TotalCost, 1e-9)
	assert.InDelta(t, 97.5, s.AverageDailyCost, 1e-9)
	assert.Equal(t, 50.0, s.MinDailyCost)
	assert.Equal(t, 145.0, s.MaxDailyCost)
	assert.InDelta(t, 97.5*30, s.CurrentMonthlyAverage, 1e-9)

	report, _ := r.Forecasts.Get()
	total := 0.0
	for _, v := range report.Ensemble.Values {
		total += v
	}
	assert.InDelta(t, total, s.ProjectedTotal, 1e-9)
	assert.InDelta(t, total/10*30, s.ProjectedMonthly, 1e-9)
	assert.Equal(t, report.Confidence, s.Confidence)

	assert.Equal(t, "compute", r.AnalysisPeriod.Service)
	assert.Equal(t, testBaseDate, r.AnalysisPeriod.Start)
	assert.Equal(t, testBaseDate.AddDate(0, 0, 19), r.AnalysisPeriod.End)
}

func TestResult_RecommendationInput(t *testing.T) {
	r, err := Run(makeSeries(t, linear(8, 100, 2)), Options{ForecastDays: 5})
	require.NoError(t, err)

	in := r.RecommendationInput()
	assert.NotNil(t, in.Trend)
	assert.NotNil(t, in.Volatility)
	assert.NotNil(t, in.Forecast)
	assert.Nil(t, in.ChangePoints, "change points need 10 points")
	assert.Equal(t, r.Summary.AverageDailyCost, in.AverageDailyCost)
}

func TestResult_JSON(t *testing.T) {
	r, err := Run(makeSeries(t, linear(10, 100, 1)), Options{ForecastDays: 3})
	require.NoError(t, err)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	components, ok := decoded["trend_components"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, components["available"])
	assert.Contains(t, decoded, "forecasts")
	assert.Contains(t, decoded, "summary")
}

func TestRunBatch(t *testing.T) {
	results, errs := RunBatch(map[string]analytics.Series{
		"storage": makeSeries(t, linear(14, 20, 1)),
		"network": makeSeries(t, linear(3, 5, 0)),
	}, Options{ForecastDays: 7})

	require.Contains(t, results, "storage")
	assert.Equal(t, "storage", results["storage"].AnalysisPeriod.Service)
	assert.ErrorIs(t, errs["network"], analytics.ErrInsufficientData)
	assert.NotContains(t, results, "network")
}
