package trend

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// MinMetricsPoints is the shortest series Calculate accepts.
const MinMetricsPoints = 7

// Direction is the overall movement of costs across the period.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// directionBandPct is the period change, in percent, inside which a series is stable.
const directionBandPct = 5.0

// Metrics describes the direction, strength, growth, volatility and
// acceleration of a series.
type Metrics struct {
	Direction         Direction `json:"direction"`
	Slope             float64   `json:"slope"`
	Intercept         float64   `json:"intercept"`
	RSquared          float64   `json:"r_squared"`
	PeriodChangePct   float64   `json:"period_change_pct"`
	Strength          float64   `json:"strength"`
	StrengthLabel     string    `json:"strength_label"`
	GrowthRatePct     float64   `json:"growth_rate_pct"`
	Volatility        float64   `json:"volatility"`
	Acceleration      float64   `json:"acceleration"`
	AccelerationLabel string    `json:"acceleration_label"`
}

// Calculate computes trend metrics for s.
func Calculate(s analytics.Series) (*Metrics, error) {
	n := s.Len()
	if err := analytics.RequirePoints("trend metrics", n, MinMetricsPoints); err != nil {
		return nil, err
	}
	costs := s.Costs()
	mean := analytics.Mean(costs)

	fit, err := analytics.FitLine("trend metrics", costs)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Slope:     fit.Slope,
		Intercept: fit.Intercept,
		RSquared:  fit.RSquared,
		Strength:  fit.RSquared,
	}

	if mean > 0 {
		m.PeriodChangePct = fit.Slope * float64(n-1) / mean * 100
	}
	switch {
	case m.PeriodChangePct > directionBandPct:
		m.Direction = DirectionIncreasing
	case m.PeriodChangePct < -directionBandPct:
		m.Direction = DirectionDecreasing
	default:
		m.Direction = DirectionStable
	}

	switch {
	case m.Strength >= 0.7:
		m.StrengthLabel = "strong"
	case m.Strength >= 0.3:
		m.StrengthLabel = "moderate"
	default:
		m.StrengthLabel = "weak"
	}

	k := min(7, n/2)
	first := analytics.Mean(costs[:k])
	last := analytics.Mean(costs[n-k:])
	if first > 0 {
		m.GrowthRatePct = (last - first) / first * 100
	}

	if cv, err := analytics.CoefficientOfVariation("trend metrics", costs); err == nil {
		m.Volatility = cv
	}

	half := n / 2
	early, err := analytics.FitLine("trend metrics", costs[:half])
	if err != nil {
		return nil, err
	}
	late, err := analytics.FitLine("trend metrics", costs[half:])
	if err != nil {
		return nil, err
	}
	m.Acceleration = late.Slope - early.Slope
	switch {
	case m.Acceleration > 0 && m.Acceleration > 0.01*mean:
		m.AccelerationLabel = "accelerating"
	case m.Acceleration < 0 && m.Acceleration < -0.01*mean:
		m.AccelerationLabel = "decelerating"
	default:
		m.AccelerationLabel = "steady"
	}

	return m, nil
}
