// Package forecast projects daily costs forward with four independent models
// and combines them into a weighted ensemble with prediction intervals and a
// single confidence score.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Method identifies one of the closed set of forecasting models.
type Method string

const (
	MethodLinearTrend          Method = "linear_trend"
	MethodExponentialSmoothing Method = "exponential_smoothing"
	MethodMovingAverage        Method = "moving_average"
	MethodSeasonalNaive        Method = "seasonal_naive"
)

// Methods lists every model in ensemble order.
var Methods = []Method{
	MethodLinearTrend,
	MethodExponentialSmoothing,
	MethodMovingAverage,
	MethodSeasonalNaive,
}

// ErrInvalidHorizon is returned when fewer than one future day is requested.
var ErrInvalidHorizon = errors.New("forecast horizon must be at least one day")

// FitStats are in-sample error measures of a model's fitted values.
type FitStats struct {
	MAPE float64 `json:"mape"` // Mean Absolute Percentage Error
	MAE  float64 `json:"mae"`  // Mean Absolute Error
	RMSE float64 `json:"rmse"` // Root Mean Squared Error
}

// Result is one model's forecast.
type Result struct {
	Method        Method             `json:"method"`
	Parameters    map[string]float64 `json:"parameters"`
	QualityName   string             `json:"quality_name"`
	QualityMetric float64            `json:"quality_metric"`
	Values        []float64          `json:"forecast_values"`
	Dates         []time.Time        `json:"forecast_dates"`
	Fit           FitStats           `json:"fit"`
	DataPoints    int                `json:"data_points"`
}

// Forecaster is implemented by the four models of this package only.
type Forecaster interface {
	// Method returns the model identifier
	Method() Method
	// Forecast projects s forward by horizon days
	Forecast(s analytics.Series, horizon int) (*Result, error)

	sealed()
}

// DefaultForecasters returns the four models with their standard parameters.
func DefaultForecasters() []Forecaster {
	return []Forecaster{
		NewLinearForecaster(),
		NewExponentialForecaster(DefaultAlpha),
		NewSMAForecaster(DefaultMaxWindow),
		NewSeasonalNaiveForecaster(DefaultSeasonalPeriod),
	}
}

func checkHorizon(horizon int) error {
	if horizon < 1 {
		return ErrInvalidHorizon
	}
	return nil
}

// newResult fills the shared fields of a Result from fitted values.
func newResult(m Method, s analytics.Series, horizon int, values, actual, fitted []float64) *Result {
	for i := range values {
		values[i] = analytics.ClampNonNegative(values[i])
	}
	return &Result{
		Method:     m,
		Parameters: map[string]float64{},
		Values:     values,
		Dates:      analytics.NextDays(s.End(), horizon),
		Fit: FitStats{
			MAPE: CalculateMAPE(actual, fitted),
			MAE:  CalculateMAE(actual, fitted),
			RMSE: CalculateRMSE(actual, fitted),
		},
		DataPoints: s.Len(),
	}
}

func flat(v float64, horizon int) []float64 {
	values := make([]float64, horizon)
	for i := range values {
		values[i] = v
	}
	return values
}

// CalculateMAPE calculates Mean Absolute Percentage Error, skipping zero actuals
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
