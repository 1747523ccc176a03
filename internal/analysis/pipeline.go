package analysis

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/anomaly"
	"github.com/costwatch/costwatch/internal/analytics/changepoint"
	"github.com/costwatch/costwatch/internal/analytics/forecast"
	"github.com/costwatch/costwatch/internal/analytics/trend"
	"github.com/costwatch/costwatch/internal/analytics/volatility"
)

// MinPoints is the shortest series Run analyzes.
const MinPoints = 7

// Options control one analysis run.
type Options struct {
	Service      string
	ForecastDays int
	// Parallel computes the independent sections concurrently.
	Parallel bool
}

// Run analyzes s. It fails only when s is too short for any analysis or the
// forecast horizon is invalid; every other section failure is recorded as an
// unavailable section.
func Run(s analytics.Series, opts Options) (*Result, error) {
	if err := analytics.RequirePoints("cost analysis", s.Len(), MinPoints); err != nil {
		return nil, err
	}
	if opts.ForecastDays < 1 {
		return nil, forecast.ErrInvalidHorizon
	}

	r := &Result{
		AnalysisPeriod: Period{
			Service: opts.Service,
			Start:   s.Start(),
			End:     s.End(),
			Days:    s.Len(),
		},
	}

	sections := []func(){
		func() { r.TrendComponents = optional[trend.Decomposition](trend.Decompose(s)) },
		func() { r.Seasonality = trend.DetectSeasonality(s) },
		func() { r.TrendMetrics = optional[trend.Metrics](trend.Calculate(s)) },
		func() { r.Forecasts = optional[forecast.Report](forecast.Run(s, opts.ForecastDays)) },
		func() { r.Anomalies = anomaly.Detect(s) },
		func() { r.ChangePoints = optionalValue[[]changepoint.ChangePoint](changepoint.Detect(s)) },
		func() { r.VolatilityAnalysis = optional[volatility.Profile](volatility.Analyze(s)) },
	}

	if opts.Parallel {
		// Each section writes a distinct field of r.
		var g errgroup.Group
		for _, section := range sections {
			g.Go(func() error {
				section()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, section := range sections {
			section()
		}
	}

	r.Summary = summarize(s, r)
	return r, nil
}

func optional[T any](v *T, err error) analytics.Optional[T] {
	if err != nil {
		return analytics.None[T](err)
	}
	return analytics.Some(*v)
}

func optionalValue[T any](v T, err error) analytics.Optional[T] {
	if err != nil {
		return analytics.None[T](err)
	}
	return analytics.Some(v)
}

// RunBatch analyzes several series concurrently, keyed like the input map.
// Series that fail are reported in the error map instead.
func RunBatch(series map[string]analytics.Series, opts Options) (map[string]*Result, map[string]error) {
	var (
		mu      sync.Mutex
		results = make(map[string]*Result, len(series))
		errs    = make(map[string]error)
		g       errgroup.Group
	)
	for key, s := range series {
		g.Go(func() error {
			o := opts
			if o.Service == "" {
				o.Service = key
			}
			res, err := Run(s, o)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[key] = err
				return nil
			}
			results[key] = res
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}
