package anomaly

import (
	"fmt"
	"math"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Rolling and day-of-week detector defaults.
const (
	DefaultRollingWindow = 7
	DefaultSigmas        = 2.0
)

const minRollingPoints = 5

// RollingDetector compares each point to the mean and stdev of the trailing
// window before it. Good for detecting sudden changes in trending data.
type RollingDetector struct {
	MaxWindow int
	Sigmas    float64
}

// NewRollingDetector creates a trailing-window detector
func NewRollingDetector(maxWindow int, sigmas float64) *RollingDetector {
	if maxWindow <= 0 {
		maxWindow = DefaultRollingWindow
	}
	if sigmas <= 0 {
		sigmas = DefaultSigmas
	}
	return &RollingDetector{MaxWindow: maxWindow, Sigmas: sigmas}
}

// Method returns the detector identifier
func (r *RollingDetector) Method() Method {
	return MethodRolling
}

func (r *RollingDetector) sealed() {}

// Detect finds anomalies against the trailing window
func (r *RollingDetector) Detect(s analytics.Series) []Anomaly {
	n := s.Len()
	if n < minRollingPoints {
		return nil
	}
	costs := s.Costs()
	window := min(r.MaxWindow, n/3)
	if window < 1 {
		return nil
	}

	var results []Anomaly
	for i := window; i < n; i++ {
		trailing := costs[i-window : i]
		mean := analytics.Mean(trailing)
		stdDev := analytics.StdDev(trailing)
		if analytics.RequireNonZero("rolling deviation", "window stdev", stdDev) != nil {
			continue
		}
		deviation := math.Abs(costs[i] - mean)
		if deviation <= r.Sigmas*stdDev {
			continue
		}
		results = append(results, Anomaly{
			Date:         s.At(i).Date,
			Cost:         costs[i],
			ExpectedCost: mean,
			Severity:     clampSeverity(int(deviation / stdDev)),
			Type:         typeOf(costs[i], mean),
			Method:       MethodRolling,
			Score:        deviation / stdDev,
			Description: fmt.Sprintf("Cost %.2f deviates %.1f standard deviations from the previous %d days",
				costs[i], deviation/stdDev, window),
		})
	}
	return results
}
