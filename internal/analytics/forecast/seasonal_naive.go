package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// DefaultSeasonalPeriod is one week of daily points.
const DefaultSeasonalPeriod = 7

// SeasonalNaiveForecaster repeats the last observed cycle for every future day.
type SeasonalNaiveForecaster struct {
	Period int
}

// NewSeasonalNaiveForecaster creates a new seasonal-naive forecaster
func NewSeasonalNaiveForecaster(period int) *SeasonalNaiveForecaster {
	if period <= 0 {
		period = DefaultSeasonalPeriod
	}
	return &SeasonalNaiveForecaster{Period: period}
}

// Method returns the model identifier
func (f *SeasonalNaiveForecaster) Method() Method {
	return MethodSeasonalNaive
}

func (f *SeasonalNaiveForecaster) sealed() {}

// Forecast generates predictions by cycling the last Period observations
func (f *SeasonalNaiveForecaster) Forecast(s analytics.Series, horizon int) (*Result, error) {
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	actual := s.Costs()
	if err := analytics.RequirePoints("seasonal naive forecast", len(actual), f.Period); err != nil {
		return nil, err
	}

	cycle := actual[len(actual)-f.Period:]
	values := make([]float64, horizon)
	for h := range values {
		values[h] = cycle[h%f.Period]
	}

	// In-sample fit: each point predicted by the point one period earlier
	var observed, fitted []float64
	for i := f.Period; i < len(actual); i++ {
		observed = append(observed, actual[i])
		fitted = append(fitted, actual[i-f.Period])
	}

	r := newResult(MethodSeasonalNaive, s, horizon, values, observed, fitted)
	r.Parameters["period"] = float64(f.Period)
	r.QualityName = "none"
	return r, nil
}
