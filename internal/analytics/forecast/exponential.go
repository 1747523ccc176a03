package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// DefaultAlpha is the smoothing constant of the exponential model.
const DefaultAlpha = 0.3

// ExponentialForecaster implements simple exponential smoothing. The forecast
// is flat at the last smoothed level; its quality metric is the in-sample MAE.
type ExponentialForecaster struct {
	Alpha float64
}

// NewExponentialForecaster creates a new exponential smoothing forecaster
func NewExponentialForecaster(alpha float64) *ExponentialForecaster {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &ExponentialForecaster{Alpha: alpha}
}

// Method returns the model identifier
func (f *ExponentialForecaster) Method() Method {
	return MethodExponentialSmoothing
}

func (f *ExponentialForecaster) sealed() {}

// Forecast generates predictions using simple exponential smoothing
func (f *ExponentialForecaster) Forecast(s analytics.Series, horizon int) (*Result, error) {
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	actual := s.Costs()
	if err := analytics.RequirePoints("exponential smoothing forecast", len(actual), 1); err != nil {
		return nil, err
	}

	smoothed := make([]float64, len(actual))
	smoothed[0] = actual[0]
	for i := 1; i < len(actual); i++ {
		smoothed[i] = f.Alpha*actual[i] + (1-f.Alpha)*smoothed[i-1]
	}

	r := newResult(MethodExponentialSmoothing, s, horizon, flat(smoothed[len(smoothed)-1], horizon), actual, smoothed)
	r.Parameters["alpha"] = f.Alpha
	r.QualityName = "mae"
	r.QualityMetric = r.Fit.MAE
	return r, nil
}
