package trend

import (
	"math"
	"reflect"
	"testing"
)

func TestDetectSeasonality_ConstantSeries(t *testing.T) {
	report := DetectSeasonality(makeSeries(t, constant(14, 100)))
	if report.HasSeasonality {
		t.Error("Expected no seasonality for a constant series")
	}
	weekly, ok := report.Weekly.Get()
	if !ok {
		t.Fatalf("Expected weekly test to run: %s", report.Weekly.Reason)
	}
	if weekly.CV != 0 || weekly.Detected {
		t.Errorf("Expected CV 0, got %v", weekly.CV)
	}
	if report.Monthly.Available() {
		t.Error("Expected monthly test to be unavailable below 60 points")
	}
	if len(report.PeakDays) != 0 || len(report.LowDays) != 0 {
		t.Errorf("Expected no peak or low days, got %v %v", report.PeakDays, report.LowDays)
	}
}

func TestDetectSeasonality_WeeklyPattern(t *testing.T) {
	report := DetectSeasonality(makeSeries(t, weeklyPattern(28, [7]float64{100, 100, 100, 100, 100, 160, 40})))
	weekly, ok := report.Weekly.Get()
	if !ok {
		t.Fatalf("Expected weekly test to run: %s", report.Weekly.Reason)
	}
	if !weekly.Detected || !report.HasSeasonality {
		t.Errorf("Expected weekly seasonality, CV=%v", weekly.CV)
	}
	if math.Abs(weekly.CV-math.Sqrt(1200)/100) > 1e-9 {
		t.Errorf("Unexpected CV %v", weekly.CV)
	}
	if weekly.DailyAverages["Saturday"] != 160 || weekly.DailyAverages["Sunday"] != 40 {
		t.Errorf("Unexpected daily averages %v", weekly.DailyAverages)
	}
	if !reflect.DeepEqual(report.PeakDays, []string{"Saturday"}) {
		t.Errorf("Expected Saturday peak, got %v", report.PeakDays)
	}
	if !reflect.DeepEqual(report.LowDays, []string{"Sunday"}) {
		t.Errorf("Expected Sunday low, got %v", report.LowDays)
	}
}

func TestDetectSeasonality_WeeklyNeedsTwoSamplesPerDay(t *testing.T) {
	report := DetectSeasonality(makeSeries(t, linear(13, 100, 1)))
	if report.Weekly.Available() {
		t.Error("Expected weekly test to be unavailable with 13 points")
	}
	if report.Weekly.Reason == "" {
		t.Error("Expected a reason for the unavailable weekly test")
	}
	if report.HasSeasonality {
		t.Error("Expected no seasonality")
	}
}

func TestDetectSeasonality_Monthly(t *testing.T) {
	flat := DetectSeasonality(makeSeries(t, constant(60, 100)))
	monthly, ok := flat.Monthly.Get()
	if !ok {
		t.Fatalf("Expected monthly test to run with 60 points: %s", flat.Monthly.Reason)
	}
	if monthly.Detected {
		t.Error("Expected no monthly seasonality for a constant series")
	}

	short := DetectSeasonality(makeSeries(t, constant(59, 100)))
	if short.Monthly.Available() {
		t.Error("Expected monthly test to be unavailable with 59 points")
	}

	costs := make([]float64, 90)
	for i := range costs {
		if testBaseDate.AddDate(0, 0, i).Day() <= 5 {
			costs[i] = 400
		} else {
			costs[i] = 100
		}
	}
	spiky := DetectSeasonality(makeSeries(t, costs))
	monthly, ok = spiky.Monthly.Get()
	if !ok {
		t.Fatalf("Expected monthly test to run: %s", spiky.Monthly.Reason)
	}
	if !monthly.Detected || !spiky.HasSeasonality {
		t.Errorf("Expected monthly seasonality, CV=%v", monthly.CV)
	}
	if monthly.DailyAverages[1] != 400 || monthly.DailyAverages[15] != 100 {
		t.Errorf("Unexpected day-of-month averages %v", monthly.DailyAverages)
	}
}

func TestDetectSeasonality_ZeroCosts(t *testing.T) {
	report := DetectSeasonality(makeSeries(t, constant(14, 0)))
	if report.Weekly.Available() {
		t.Error("Expected weekly test to be unavailable for zero mean cost")
	}
}
