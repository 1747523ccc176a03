package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Variance returns the sample variance (n-1), 0 for fewer than 2 values.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil)
}

// StdDev returns the sample standard deviation (n-1), 0 for fewer than 2 values.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// CoefficientOfVariation returns stdev/mean.
func CoefficientOfVariation(op string, values []float64) (float64, error) {
	mean := Mean(values)
	if err := RequireNonZero(op, "mean", mean); err != nil {
		return 0, err
	}
	return StdDev(values) / mean, nil
}

// Index returns 0..n-1 as float64, the regressor for day-index fits.
func Index(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// Correlation returns the Pearson correlation of xs and ys.
func Correlation(op string, xs, ys []float64) (float64, error) {
	if err := RequirePoints(op, len(xs), 2); err != nil {
		return 0, err
	}
	if err := RequireVariance(op, "x variance", xs); err != nil {
		return 0, err
	}
	if err := RequireVariance(op, "y variance", ys); err != nil {
		return 0, err
	}
	return stat.Correlation(xs, ys, nil), nil
}

// LinearFit is an ordinary least-squares fit of values against their index.
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// At evaluates the fitted line at x.
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLine regresses values on 0..n-1. RSquared is 0 when values are constant.
func FitLine(op string, values []float64) (LinearFit, error) {
	if err := RequirePoints(op, len(values), 2); err != nil {
		return LinearFit{}, err
	}
	xs := Index(len(values))
	if err := RequireVariance(op, "day-index variance", xs); err != nil {
		return LinearFit{}, err
	}
	intercept, slope := stat.LinearRegression(xs, values, nil, false)
	fit := LinearFit{Slope: slope, Intercept: intercept}
	if RequireVariance(op, "cost variance", values) == nil {
		fit.RSquared = stat.RSquared(xs, values, nil, intercept, slope)
	}
	return fit, nil
}

// ClampNonNegative returns max(0, v).
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
