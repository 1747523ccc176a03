// Package changepoint scans a cost series for significant shifts in its mean.
package changepoint

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Type is the direction of a mean shift.
type Type string

const (
	TypeIncrease Type = "increase"
	TypeDecrease Type = "decrease"
)

const (
	// MinPoints is the shortest series Detect scans.
	MinPoints = 10
	// SignificanceThreshold is the t-statistic a shift must exceed.
	SignificanceThreshold = 1.5
	// MaxChangePoints caps the report.
	MaxChangePoints = 10
)

// ChangePoint is a day where the mean of the following window differs
// significantly from the mean of the preceding window.
type ChangePoint struct {
	Date                 time.Time `json:"date"`
	Index                int       `json:"index"`
	BeforeMean           float64   `json:"before_mean"`
	AfterMean            float64   `json:"after_mean"`
	Magnitude            float64   `json:"magnitude"`
	RelativeMagnitudePct float64   `json:"relative_magnitude_pct"`
	Significance         float64   `json:"significance"`
	Type                 Type      `json:"type"`
}

// Window returns the comparison window for a series of n points.
func Window(n int) int {
	return max(3, n/10)
}

// Detect compares adjacent windows at every index and returns the most
// significant shifts, strongest first.
func Detect(s analytics.Series) ([]ChangePoint, error) {
	n := s.Len()
	if err := analytics.RequirePoints("change point detection", n, MinPoints); err != nil {
		return nil, err
	}
	costs := s.Costs()
	w := Window(n)

	points := []ChangePoint{}
	for i := w; i < n-w; i++ {
		before := costs[i-w : i]
		after := costs[i : i+w]
		pooled := math.Sqrt((analytics.Variance(before) + analytics.Variance(after)) / 2)
		if analytics.RequireNonZero("change point detection", "pooled stdev", pooled) != nil {
			continue
		}
		beforeMean := analytics.Mean(before)
		afterMean := analytics.Mean(after)
		delta := afterMean - beforeMean
		t := math.Abs(delta) / (pooled * math.Sqrt(2/float64(w)))
		if t <= SignificanceThreshold {
			continue
		}

		cp := ChangePoint{
			Date:         s.At(i).Date,
			Index:        i,
			BeforeMean:   beforeMean,
			AfterMean:    afterMean,
			Magnitude:    math.Abs(delta),
			Significance: t,
			Type:         TypeIncrease,
		}
		if delta < 0 {
			cp.Type = TypeDecrease
		}
		if beforeMean > 0 {
			cp.RelativeMagnitudePct = cp.Magnitude / beforeMean * 100
		}
		points = append(points, cp)
	}

	slices.SortStableFunc(points, func(a, b ChangePoint) int {
		return cmp.Compare(b.Significance, a.Significance)
	})
	if len(points) > MaxChangePoints {
		points = points[:MaxChangePoints]
	}
	return points, nil
}
