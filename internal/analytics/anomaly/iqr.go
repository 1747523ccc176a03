package anomaly

import (
	"fmt"
	"slices"

	"github.com/costwatch/costwatch/internal/analytics"
)

// DefaultIQRMultiplier is the fence distance in interquartile ranges.
const DefaultIQRMultiplier = 1.5

const minIQRPoints = 4

// IQRDetector detects anomalies using Interquartile Range (IQR) method
// IQR is robust to outliers compared to Z-Score
// Anomalies are points outside [Q1 - k*IQR, Q3 + k*IQR]
type IQRDetector struct {
	Multiplier float64
}

// NewIQRDetector creates an IQR detector
func NewIQRDetector(multiplier float64) *IQRDetector {
	if multiplier <= 0 {
		multiplier = DefaultIQRMultiplier
	}
	return &IQRDetector{Multiplier: multiplier}
}

// Method returns the detector identifier
func (d *IQRDetector) Method() Method {
	return MethodIQR
}

func (d *IQRDetector) sealed() {}

// Detect finds anomalies using IQR method
func (d *IQRDetector) Detect(s analytics.Series) []Anomaly {
	n := s.Len()
	if n < minIQRPoints {
		return nil
	}
	costs := s.Costs()
	sorted := slices.Clone(costs)
	slices.Sort(sorted)

	// Rank lookup, no interpolation
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1
	if analytics.RequireNonZero("iqr", "interquartile range", iqr) != nil {
		return nil
	}

	lower := q1 - d.Multiplier*iqr
	upper := q3 + d.Multiplier*iqr
	expected := (q1 + q3) / 2

	var results []Anomaly
	for i, cost := range costs {
		var deviation float64
		var bound float64
		switch {
		case cost > upper:
			deviation, bound = cost-upper, upper
		case cost < lower:
			deviation, bound = lower-cost, lower
		default:
			continue
		}
		t := typeOf(cost, expected)
		results = append(results, Anomaly{
			Date:         s.At(i).Date,
			Cost:         cost,
			ExpectedCost: expected,
			Severity:     clampSeverity(int(deviation/iqr) + 1),
			Type:         t,
			Method:       MethodIQR,
			Score:        deviation / iqr,
			Description: fmt.Sprintf("Cost %.2f is outside the interquartile fence at %.2f",
				cost, bound),
		})
	}
	return results
}
