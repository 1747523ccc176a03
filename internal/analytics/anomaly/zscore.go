package anomaly

import (
	"fmt"
	"math"

	"github.com/costwatch/costwatch/internal/analytics"
)

// DefaultZThreshold is the z-score above which a day is anomalous.
const DefaultZThreshold = 2.5

const minZScorePoints = 3

// ZScoreDetector detects anomalies using Z-Score (standard score)
// Z-Score measures how many standard deviations a point is from the mean
// Points with |Z| > threshold are considered anomalies
type ZScoreDetector struct {
	Threshold float64
}

// NewZScoreDetector creates a z-score detector
func NewZScoreDetector(threshold float64) *ZScoreDetector {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	return &ZScoreDetector{Threshold: threshold}
}

// Method returns the detector identifier
func (z *ZScoreDetector) Method() Method {
	return MethodZScore
}

func (z *ZScoreDetector) sealed() {}

// Detect finds anomalies using Z-Score method
func (z *ZScoreDetector) Detect(s analytics.Series) []Anomaly {
	if s.Len() < minZScorePoints {
		return nil
	}
	costs := s.Costs()
	mean := analytics.Mean(costs)
	stdDev := analytics.StdDev(costs)
	if analytics.RequireNonZero("zscore", "stdev", stdDev) != nil {
		return nil
	}

	var results []Anomaly
	for i, cost := range costs {
		zScore := CalculateZScore(cost, mean, stdDev)
		if math.Abs(zScore) <= z.Threshold {
			continue
		}
		t := typeOf(cost, mean)
		// Severity is int(|z| / threshold * 3): z = 2.85 at threshold 2.5 scores 3.
		results = append(results, Anomaly{
			Date:         s.At(i).Date,
			Cost:         cost,
			ExpectedCost: mean,
			Severity:     clampSeverity(int(math.Abs(zScore) / z.Threshold * 3)),
			Type:         t,
			Method:       MethodZScore,
			Score:        math.Abs(zScore),
			Description: fmt.Sprintf("Cost %.2f is %.1f standard deviations %s the mean of %.2f",
				cost, math.Abs(zScore), aboveBelow(t), mean),
		})
	}
	return results
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

func aboveBelow(t Type) string {
	if t == TypeLow {
		return "below"
	}
	return "above"
}
