// Package volatility classifies the dispersion of a cost series and how it
// changes over time.
package volatility

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// Level is the coefficient-of-variation class of a series.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// Trend is the direction of the rolling volatility.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

const (
	// MinPoints is the shortest series Analyze accepts.
	MinPoints = 3

	minRollingWindow     = 3
	maxRollingWindow     = 7
	trendCorrelation     = 0.2
	highVolatilityFactor = 1.5
)

// Profile describes the dispersion of a series.
type Profile struct {
	StdDev                 float64   `json:"std_dev"`
	CoefficientOfVariation float64   `json:"coefficient_of_variation"`
	Level                  Level     `json:"level"`
	RollingWindow          int       `json:"rolling_window"`
	RollingVolatilities    []float64 `json:"rolling_volatilities"`
	Trend                  Trend     `json:"trend"`
	TrendDescription       string    `json:"trend_description"`
	HighVolatilityPeriods  int       `json:"high_volatility_periods"`
}

// Classify maps a coefficient of variation to its level.
func Classify(cv float64) Level {
	switch {
	case cv < 0.10:
		return LevelLow
	case cv < 0.30:
		return LevelModerate
	case cv < 0.50:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Analyze profiles the volatility of s. A zero mean cost is a degenerate input.
func Analyze(s analytics.Series) (*Profile, error) {
	n := s.Len()
	if err := analytics.RequirePoints("volatility analysis", n, MinPoints); err != nil {
		return nil, err
	}
	costs := s.Costs()
	cv, err := analytics.CoefficientOfVariation("volatility analysis", costs)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		StdDev:                 analytics.StdDev(costs),
		CoefficientOfVariation: cv,
		Level:                  Classify(cv),
		RollingVolatilities:    []float64{},
		Trend:                  TrendStable,
	}

	window := min(maxRollingWindow, n/3)
	if window >= minRollingWindow {
		p.RollingWindow = window
		for i := 0; i+window <= n; i++ {
			p.RollingVolatilities = append(p.RollingVolatilities, analytics.StdDev(costs[i:i+window]))
		}
	}

	rolling := p.RollingVolatilities
	if r, err := analytics.Correlation("volatility trend", analytics.Index(len(rolling)), rolling); err == nil {
		switch {
		case r > trendCorrelation:
			p.Trend = TrendIncreasing
		case r < -trendCorrelation:
			p.Trend = TrendDecreasing
		}
	}
	p.TrendDescription = describe(p.Trend, len(rolling) > 0)

	if mean := analytics.Mean(rolling); mean > 0 {
		for _, v := range rolling {
			if v > highVolatilityFactor*mean {
				p.HighVolatilityPeriods++
			}
		}
	}
	return p, nil
}

func describe(t Trend, hasRolling bool) string {
	if !hasRolling {
		return "Not enough data to track volatility over time"
	}
	switch t {
	case TrendIncreasing:
		return "Cost volatility is increasing over the period"
	case TrendDecreasing:
		return "Cost volatility is decreasing over the period"
	default:
		return "Cost volatility is stable over the period"
	}
}
