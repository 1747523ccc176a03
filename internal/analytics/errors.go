package analytics

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy shared by all analysis components.
var (
	// ErrInsufficientData means an operation received fewer points than it needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateInput means a variance or denominator the operation divides by is zero.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrUpstreamFailure means the series source failed or returned malformed data.
	ErrUpstreamFailure = errors.New("upstream failure")
)

// Epsilon is the magnitude below which a denominator is treated as zero.
// Variance guards apply it relative to the values' scale.
const Epsilon = 1e-12

// RequirePoints fails with ErrInsufficientData when have < need.
func RequirePoints(op string, have, need int) error {
	if have < need {
		return fmt.Errorf("%w: %s needs at least %d points, have %d", ErrInsufficientData, op, need, have)
	}
	return nil
}

// RequireNonZero fails with ErrDegenerateInput when v is zero, NaN or within Epsilon of zero.
func RequireNonZero(op, what string, v float64) error {
	if math.IsNaN(v) || math.Abs(v) < Epsilon {
		return fmt.Errorf("%w: %s: %s is zero", ErrDegenerateInput, op, what)
	}
	return nil
}

// RequireVariance fails with ErrDegenerateInput when the sample variance of
// values is zero relative to their mean square.
func RequireVariance(op, what string, values []float64) error {
	v := Variance(values)
	m := Mean(values)
	if math.IsNaN(v) || v <= Epsilon*(m*m+v) {
		return fmt.Errorf("%w: %s: %s is zero", ErrDegenerateInput, op, what)
	}
	return nil
}
