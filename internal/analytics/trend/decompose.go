// Package trend splits a daily cost series into its components and describes
// its direction, strength and periodicity.
package trend

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// MinDecompositionPoints is the shortest series Decompose accepts.
const MinDecompositionPoints = 14

// weekPeriod is the positional seasonal period of the decomposition.
const weekPeriod = 7

// VarianceExplained partitions the series variance between components, in percent.
type VarianceExplained struct {
	Trend    float64 `json:"trend_pct"`
	Seasonal float64 `json:"seasonal_pct"`
	Residual float64 `json:"residual_pct"`
}

// Decomposition is an additive trend + weekly seasonal + residual split.
// All component slices are index-aligned with the source series.
type Decomposition struct {
	Trend             []float64         `json:"trend"`
	Seasonal          []float64         `json:"seasonal"`
	Residuals         []float64         `json:"residuals"`
	VarianceExplained VarianceExplained `json:"variance_explained"`
	Quality           float64           `json:"quality"`
	Window            int               `json:"window"`
}

// Decompose runs a centered moving-average decomposition of s.
// Seasonal buckets are positional (index mod 7), so they line up with
// calendar weekdays only when s starts on a Monday.
func Decompose(s analytics.Series) (*Decomposition, error) {
	n := s.Len()
	if err := analytics.RequirePoints("trend decomposition", n, MinDecompositionPoints); err != nil {
		return nil, err
	}
	costs := s.Costs()

	window := min(7, n/3)
	half := window / 2
	trendLine := make([]float64, n)
	for i := range costs {
		lo := max(0, i-half)
		hi := min(n-1, i+half)
		trendLine[i] = analytics.Mean(costs[lo : hi+1])
	}

	detrended := make([]float64, n)
	for i := range costs {
		detrended[i] = costs[i] - trendLine[i]
	}

	var buckets [weekPeriod][]float64
	for i, v := range detrended {
		buckets[i%weekPeriod] = append(buckets[i%weekPeriod], v)
	}
	var profile [weekPeriod]float64
	for d := range buckets {
		profile[d] = analytics.Mean(buckets[d])
	}

	seasonal := make([]float64, n)
	residuals := make([]float64, n)
	for i := range detrended {
		seasonal[i] = profile[i%weekPeriod]
		residuals[i] = detrended[i] - seasonal[i]
	}

	d := &Decomposition{
		Trend:     trendLine,
		Seasonal:  seasonal,
		Residuals: residuals,
		Window:    window,
		Quality:   1,
	}

	if analytics.RequireVariance("trend decomposition", "total variance", costs) != nil {
		return d, nil
	}
	total := analytics.Variance(costs)

	trendRatio := analytics.Variance(trendLine) / total
	seasonalRatio := analytics.Variance(seasonal) / total
	residualRatio := analytics.Variance(residuals) / total

	// Components are not orthogonal, so the raw ratios are rescaled into a partition.
	sum := trendRatio + seasonalRatio + residualRatio
	if sum > 0 {
		d.VarianceExplained = VarianceExplained{
			Trend:    trendRatio / sum * 100,
			Seasonal: seasonalRatio / sum * 100,
			Residual: residualRatio / sum * 100,
		}
	}
	d.Quality = max(0, 1-residualRatio)
	return d, nil
}
