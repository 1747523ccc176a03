package forecast

import (
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Common test data and helpers for all forecast tests

var testBaseDate = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

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

// generateLinearData creates costs with linear pattern: y = slope * x + intercept
func generateLinearData(n int, slope, intercept float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = slope*float64(i) + intercept
	}
	return values
}

func constant(n int, v float64) []float64 {
	return generateLinearData(n, 0, v)
}
