package changepoint

import (
	"errors"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

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

// noisyStep alternates +-1 around low for n/2 points, then around high.
func noisyStep(n int, low, high float64) []float64 {
	costs := make([]float64, n)
	for i := range costs {
		level := low
		if i >= n/2 {
			level = high
		}
		if i%2 == 0 {
			costs[i] = level + 1
		} else {
			costs[i] = level - 1
		}
	}
	return costs
}

func TestDetect_StepIncrease(t *testing.T) {
	points, err := Detect(makeSeries(t, noisyStep(40, 100, 150)))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(points) == 0 {
		t.Fatal("Expected change points")
	}
	top := points[0]
	if top.Index != 20 {
		t.Errorf("Expected strongest shift at index 20, got %d", top.Index)
	}
	if top.Type != TypeIncrease {
		t.Errorf("Expected increase, got %s", top.Type)
	}
	if top.BeforeMean != 100 || top.AfterMean != 150 || top.Magnitude != 50 {
		t.Errorf("Unexpected means %+v", top)
	}
	if top.RelativeMagnitudePct != 50 {
		t.Errorf("Expected 50%% relative magnitude, got %v", top.RelativeMagnitudePct)
	}
	if !top.Date.Equal(testBaseDate.AddDate(0, 0, 20)) {
		t.Errorf("Unexpected date %s", top.Date)
	}
}

func TestDetect_StepDecrease(t *testing.T) {
	points, err := Detect(makeSeries(t, noisyStep(30, 200, 120)))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(points) == 0 || points[0].Type != TypeDecrease {
		t.Fatalf("Expected a decrease first, got %+v", points)
	}
}

func TestDetect_SortedAndCapped(t *testing.T) {
	costs := noisyStep(120, 100, 300)
	points, err := Detect(makeSeries(t, costs))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(points) > MaxChangePoints {
		t.Errorf("Expected at most %d change points, got %d", MaxChangePoints, len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Significance > points[i-1].Significance {
			t.Errorf("Change points not sorted at %d", i)
		}
	}
	for _, p := range points {
		if p.Significance <= SignificanceThreshold {
			t.Errorf("Insignificant change point reported: %+v", p)
		}
	}
}

func TestDetect_FlatSeries(t *testing.T) {
	costs := make([]float64, 20)
	for i := range costs {
		costs[i] = 100
	}
	points, err := Detect(makeSeries(t, costs))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("Expected no change points, got %d", len(points))
	}
}

func TestDetect_InsufficientData(t *testing.T) {
	_, err := Detect(makeSeries(t, noisyStep(9, 10, 20)))
	if !errors.Is(err, analytics.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	tests := map[int]int{10: 3, 29: 3, 30: 3, 40: 4, 95: 9}
	for n, want := range tests {
		if got := Window(n); got != want {
			t.Errorf("Window(%d): expected %d, got %d", n, want, got)
		}
	}
}
