package forecast

import (
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// MinEnsemblePoints is the shortest series the ensemble forecasts.
const MinEnsemblePoints = 7

// Fixed raw weights of the models without a fit-quality weight.
const (
	MovingAverageWeight = 0.8
	SeasonalNaiveWeight = 0.7
)

// Ensemble is the quality-weighted combination of the model forecasts.
type Ensemble struct {
	ComponentMethods []Method           `json:"component_methods"`
	Weights          map[Method]float64 `json:"weights"`
	Values           []float64          `json:"values"`
	Dates            []time.Time        `json:"dates"`
	Excluded         map[Method]string  `json:"excluded,omitempty"`
}

// Weight returns the raw, unnormalized ensemble weight of r.
func Weight(r *Result) float64 {
	switch r.Method {
	case MethodLinearTrend:
		return max(0, r.QualityMetric)
	case MethodExponentialSmoothing:
		return 1 / (1 + r.QualityMetric)
	case MethodMovingAverage:
		return MovingAverageWeight
	case MethodSeasonalNaive:
		return SeasonalNaiveWeight
	default:
		return 0
	}
}

// Combine weights the successful results into one forecast over horizon days.
// excluded carries the failure reason of every model that produced no result.
func Combine(results []*Result, excluded map[Method]string, last time.Time, horizon int) Ensemble {
	e := Ensemble{
		ComponentMethods: make([]Method, 0, len(results)),
		Weights:          make(map[Method]float64, len(results)),
		Values:           make([]float64, horizon),
		Dates:            analytics.NextDays(last, horizon),
		Excluded:         excluded,
	}
	if len(results) == 0 {
		e.Values = []float64{}
		return e
	}

	total := 0.0
	for _, r := range results {
		e.ComponentMethods = append(e.ComponentMethods, r.Method)
		w := Weight(r)
		e.Weights[r.Method] = w
		total += w
	}
	for m := range e.Weights {
		if total > 0 {
			e.Weights[m] /= total
		} else {
			e.Weights[m] = 1 / float64(len(results))
		}
	}

	for h := range e.Values {
		var sum, weight float64
		var contributors int
		var plain float64
		for _, r := range results {
			if h >= len(r.Values) {
				continue
			}
			w := e.Weights[r.Method]
			sum += w * r.Values[h]
			weight += w
			plain += r.Values[h]
			contributors++
		}
		switch {
		case weight > 0:
			e.Values[h] = analytics.ClampNonNegative(sum / weight)
		case contributors > 0:
			e.Values[h] = analytics.ClampNonNegative(plain / float64(contributors))
		}
	}
	return e
}
