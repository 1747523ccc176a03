package trend

import (
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

var testBaseDate = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday

func makeSeries(t *testing.T, costs []float64) analytics.Series {
	t.Helper()
	points := make([]analytics.CostPoint, len(costs))
	for i, c := range costs {
		points[i] = analytics.CostPoint{Date: testBaseDate.AddDate(0, 0, i), Cost: c}
	}
	s, err := analytics.NewSeries(points)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}
	return s
}

func constant(n int, v float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func linear(n int, intercept, slope float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = intercept + slope*float64(i)
	}
	return values
}

// weeklyPattern repeats the Monday-first profile for n days.
func weeklyPattern(n int, profile [7]float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = profile[i%7]
	}
	return values
}
