// Package anomaly flags unusual daily costs with four independent detectors
// and merges their findings into one ranked list with at most one entry per day.
package anomaly

import (
	"cmp"
	"slices"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Type is the direction of an anomaly relative to its expected cost.
type Type string

const (
	TypeHigh Type = "high" // Cost above expectation
	TypeLow  Type = "low"  // Cost below expectation
)

// Method identifies one of the closed set of detectors.
type Method string

const (
	MethodZScore  Method = "zscore"
	MethodIQR     Method = "iqr"
	MethodRolling Method = "rolling_deviation"
	MethodWeekday Method = "day_of_week"
)

// Severity bounds and the size of the merged report.
const (
	MinSeverity  = 1
	MaxSeverity  = 5
	MaxAnomalies = 20
)

// Anomaly is one unusual day.
type Anomaly struct {
	Date         time.Time `json:"date"`
	Cost         float64   `json:"cost"`
	ExpectedCost float64   `json:"expected_cost"`
	Severity     int       `json:"severity"`
	Type         Type      `json:"type"`
	Method       Method    `json:"method"`
	Score        float64   `json:"score"` // How anomalous (higher = more abnormal)
	Description  string    `json:"description"`
}

// Detector is implemented by the four detectors of this package only.
// A detector returns nothing, rather than an error, when the series is too
// short or too flat for it.
type Detector interface {
	// Method returns the detector identifier
	Method() Method
	// Detect finds anomalies in s
	Detect(s analytics.Series) []Anomaly

	sealed()
}

// DefaultDetectors returns the four detectors with their standard parameters.
func DefaultDetectors() []Detector {
	return []Detector{
		NewZScoreDetector(DefaultZThreshold),
		NewIQRDetector(DefaultIQRMultiplier),
		NewRollingDetector(DefaultRollingWindow, DefaultSigmas),
		NewWeekdayDetector(DefaultSigmas),
	}
}

// Detect runs every default detector over s and merges the results.
func Detect(s analytics.Series) []Anomaly {
	return DetectWith(DefaultDetectors(), s)
}

// DetectWith runs detectors over s and merges the results.
func DetectWith(detectors []Detector, s analytics.Series) []Anomaly {
	lists := make([][]Anomaly, 0, len(detectors))
	for _, d := range detectors {
		lists = append(lists, d.Detect(s))
	}
	return Merge(lists...)
}

// Merge keeps the highest-severity anomaly per date, earlier lists winning
// ties, then ranks by severity descending and date ascending and keeps the
// top MaxAnomalies.
func Merge(lists ...[]Anomaly) []Anomaly {
	best := make(map[time.Time]int)
	merged := []Anomaly{}
	for _, list := range lists {
		for _, a := range list {
			i, seen := best[a.Date]
			switch {
			case !seen:
				best[a.Date] = len(merged)
				merged = append(merged, a)
			case a.Severity > merged[i].Severity:
				merged[i] = a
			}
		}
	}

	slices.SortStableFunc(merged, func(a, b Anomaly) int {
		if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	if len(merged) > MaxAnomalies {
		merged = merged[:MaxAnomalies]
	}
	return merged
}

func clampSeverity(s int) int {
	return max(MinSeverity, min(MaxSeverity, s))
}

func typeOf(cost, expected float64) Type {
	if cost < expected {
		return TypeLow
	}
	return TypeHigh
}
