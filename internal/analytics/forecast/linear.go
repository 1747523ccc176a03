package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// LinearForecaster extrapolates an ordinary least-squares line through the
// series. Its quality metric is R².
type LinearForecaster struct{}

// NewLinearForecaster creates a new linear trend forecaster
func NewLinearForecaster() *LinearForecaster {
	return &LinearForecaster{}
}

// Method returns the model identifier
func (f *LinearForecaster) Method() Method {
	return MethodLinearTrend
}

func (f *LinearForecaster) sealed() {}

// Forecast generates predictions from the fitted line
func (f *LinearForecaster) Forecast(s analytics.Series, horizon int) (*Result, error) {
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	actual := s.Costs()
	fit, err := analytics.FitLine("linear trend forecast", actual)
	if err != nil {
		return nil, err
	}

	fitted := make([]float64, len(actual))
	for i := range actual {
		fitted[i] = fit.At(float64(i))
	}

	values := make([]float64, horizon)
	for h := range values {
		values[h] = fit.At(float64(len(actual) + h))
	}

	r := newResult(MethodLinearTrend, s, horizon, values, actual, fitted)
	r.Parameters["slope"] = fit.Slope
	r.Parameters["intercept"] = fit.Intercept
	r.QualityName = "r_squared"
	r.QualityMetric = fit.RSquared
	return r, nil
}
