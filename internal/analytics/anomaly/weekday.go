package anomaly

import (
	"fmt"
	"math"

	"github.com/costwatch/costwatch/internal/analytics"
)

const minWeekdayPoints = 14

// WeekdayDetector compares each day to the history of the same weekday.
type WeekdayDetector struct {
	Sigmas float64
}

// NewWeekdayDetector creates a day-of-week detector
func NewWeekdayDetector(sigmas float64) *WeekdayDetector {
	if sigmas <= 0 {
		sigmas = DefaultSigmas
	}
	return &WeekdayDetector{Sigmas: sigmas}
}

// Method returns the detector identifier
func (w *WeekdayDetector) Method() Method {
	return MethodWeekday
}

func (w *WeekdayDetector) sealed() {}

// Detect finds days that deviate from their weekday's mean
func (w *WeekdayDetector) Detect(s analytics.Series) []Anomaly {
	if s.Len() < minWeekdayPoints {
		return nil
	}

	var groups [7][]float64
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		d := analytics.WeekdayIndex(p.Date)
		groups[d] = append(groups[d], p.Cost)
	}
	var means, stdDevs [7]float64
	for d, g := range groups {
		if len(g) >= 2 {
			means[d] = analytics.Mean(g)
			stdDevs[d] = analytics.StdDev(g)
		}
	}

	var results []Anomaly
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		d := analytics.WeekdayIndex(p.Date)
		if len(groups[d]) < 2 || analytics.RequireNonZero("day of week", "weekday stdev", stdDevs[d]) != nil {
			continue
		}
		deviation := math.Abs(p.Cost - means[d])
		if deviation <= w.Sigmas*stdDevs[d] {
			continue
		}
		t := typeOf(p.Cost, means[d])
		results = append(results, Anomaly{
			Date:         p.Date,
			Cost:         p.Cost,
			ExpectedCost: means[d],
			Severity:     clampSeverity(int(deviation / stdDevs[d])),
			Type:         t,
			Method:       MethodWeekday,
			Score:        deviation / stdDevs[d],
			Description: fmt.Sprintf("Cost %.2f is unusually %s for a %s (average %.2f)",
				p.Cost, t, analytics.Weekdays[d], means[d]),
		})
	}
	return results
}
