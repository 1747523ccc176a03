package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// DefaultMaxWindow caps the moving-average window.
const DefaultMaxWindow = 7

// SMAForecaster implements simple moving average forecasting over a window of
// min(MaxWindow, n/2) points. Its quality metric is the window's stdev.
type SMAForecaster struct {
	MaxWindow int
}

// NewSMAForecaster creates a new SMA forecaster
func NewSMAForecaster(maxWindow int) *SMAForecaster {
	if maxWindow <= 0 {
		maxWindow = DefaultMaxWindow
	}
	return &SMAForecaster{MaxWindow: maxWindow}
}

// Method returns the model identifier
func (f *SMAForecaster) Method() Method {
	return MethodMovingAverage
}

func (f *SMAForecaster) sealed() {}

// Forecast generates predictions using simple moving average
func (f *SMAForecaster) Forecast(s analytics.Series, horizon int) (*Result, error) {
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	actual := s.Costs()
	window := min(f.MaxWindow, len(actual)/2)
	if err := analytics.RequirePoints("moving average forecast", window, 1); err != nil {
		return nil, err
	}

	// Trailing averages as fitted values
	fitted := make([]float64, len(actual))
	for i := range actual {
		start := max(0, i-window+1)
		fitted[i] = analytics.Mean(actual[start : i+1])
	}

	last := actual[len(actual)-window:]
	r := newResult(MethodMovingAverage, s, horizon, flat(analytics.Mean(last), horizon), actual, fitted)
	r.Parameters["window"] = float64(window)
	r.QualityName = "window_stdev"
	r.QualityMetric = analytics.StdDev(last)
	return r, nil
}
