package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// ConfidenceLevel pairs a two-sided confidence percentage with its z-score.
type ConfidenceLevel struct {
	Percent int
	Z       float64
}

// ConfidenceLevels are the interval levels reported for every forecast.
var ConfidenceLevels = []ConfidenceLevel{
	{Percent: 80, Z: 1.28},
	{Percent: 90, Z: 1.64},
	{Percent: 95, Z: 1.96},
}

// horizonGrowth widens the margin by this fraction per future day.
const horizonGrowth = 0.10

// Band holds the per-day bounds of one confidence level.
type Band struct {
	Lower []float64 `json:"lower_bounds"`
	Upper []float64 `json:"upper_bounds"`
}

// PredictionIntervals are the confidence bands around a forecast.
type PredictionIntervals struct {
	StandardError float64      `json:"standard_error"`
	Intervals     map[int]Band `json:"intervals"`
}

// StandardError is the spread of one-step naive persistence errors over the
// history, falling back to a tenth of the cost stdev for very short series.
func StandardError(history []float64) float64 {
	if len(history) < 3 {
		return 0.1 * analytics.StdDev(history)
	}
	errs := make([]float64, len(history)-1)
	for i := 1; i < len(history); i++ {
		diff := history[i] - history[i-1]
		if diff < 0 {
			diff = -diff
		}
		errs[i-1] = diff
	}
	return analytics.StdDev(errs)
}

// Intervals builds 80/90/95% bands around forecast from the history's errors.
func Intervals(history, forecast []float64) PredictionIntervals {
	se := StandardError(history)
	pi := PredictionIntervals{
		StandardError: se,
		Intervals:     make(map[int]Band, len(ConfidenceLevels)),
	}
	for _, level := range ConfidenceLevels {
		band := Band{
			Lower: make([]float64, len(forecast)),
			Upper: make([]float64, len(forecast)),
		}
		for h, v := range forecast {
			margin := level.Z * se * (1 + horizonGrowth*float64(h))
			band.Lower[h] = analytics.ClampNonNegative(v - margin)
			band.Upper[h] = v + margin
		}
		pi.Intervals[level.Percent] = band
	}
	return pi
}
