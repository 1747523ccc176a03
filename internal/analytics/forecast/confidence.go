package forecast

import (
	"math"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Confidence bounds and the score returned for very short series.
const (
	MinConfidence       = 0.10
	MaxConfidence       = 0.95
	ShortSeriesScore    = 0.3
	fullConfidenceDays  = 30
	minTrendClarityDays = 5
)

// Confidence scores a forecast between MinConfidence and MaxConfidence by
// averaging data quantity, stability, model agreement and trend clarity.
// Factors whose inputs are degenerate are left out of the average.
func Confidence(history []float64, results []*Result) float64 {
	n := len(history)
	if n < MinEnsemblePoints {
		return ShortSeriesScore
	}

	factors := []float64{math.Min(1, float64(n)/fullConfidenceDays)}

	mean := analytics.Mean(history)
	if cv, err := analytics.CoefficientOfVariation("confidence stability", history); err == nil {
		factors = append(factors, math.Max(0.1, 1-math.Min(1, cv)))
	} else if analytics.StdDev(history) == 0 && mean == 0 {
		factors = append(factors, 1)
	}

	if len(results) >= 2 {
		firsts := make([]float64, 0, len(results))
		for _, r := range results {
			if len(r.Values) > 0 {
				firsts = append(firsts, r.Values[0])
			}
		}
		if len(firsts) >= 2 {
			if cv, err := analytics.CoefficientOfVariation("confidence agreement", firsts); err == nil {
				factors = append(factors, math.Max(0.1, 1-math.Min(1, cv)))
			} else {
				// All first-day forecasts are zero, so the models agree exactly.
				factors = append(factors, 1)
			}
		}
	}

	if n >= minTrendClarityDays {
		if r, err := analytics.Correlation("confidence trend clarity", analytics.Index(n), history); err == nil {
			factors = append(factors, math.Min(1, math.Abs(r)))
		}
	}

	score := analytics.Mean(factors)
	return math.Max(MinConfidence, math.Min(MaxConfidence, score))
}
