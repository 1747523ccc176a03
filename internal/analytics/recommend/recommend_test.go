package recommend

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/anomaly"
	"github.com/costwatch/costwatch/internal/analytics/changepoint"
	"github.com/costwatch/costwatch/internal/analytics/forecast"
	"github.com/costwatch/costwatch/internal/analytics/trend"
	"github.com/costwatch/costwatch/internal/analytics/volatility"
)

var testDate = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func find(set Set, typ string) (Recommendation, bool) {
	for _, r := range set.Recommendations {
		if r.Type == typ {
			return r, true
		}
	}
	return Recommendation{}, false
}

func expectSavings(t *testing.T, r Recommendation, want int64) {
	t.Helper()
	if !r.EstimatedSavings.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s: expected savings %d, got %s", r.Type, want, r.EstimatedSavings)
	}
}

func flatForecast(v float64, n int) *forecast.Ensemble {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return &forecast.Ensemble{Values: values}
}

func weeklyWithSaturdayPeak() *trend.SeasonalityReport {
	return &trend.SeasonalityReport{
		HasSeasonality: true,
		Weekly: analytics.Some(trend.WeeklySeasonality{
			Detected:      true,
			DailyAverages: map[string]float64{"Saturday": 160},
		}),
		PeakDays: []string{"Saturday"},
	}
}

func TestGenerate_EmptyInput(t *testing.T) {
	set := Generate(Input{})
	if len(set.Recommendations) != 0 || set.Counts.Total != 0 {
		t.Errorf("Expected no recommendations, got %+v", set)
	}
	if !set.TotalEstimatedSavings.IsZero() {
		t.Errorf("Expected zero savings, got %s", set.TotalEstimatedSavings)
	}
}

func TestGenerate_VolatilityPriority(t *testing.T) {
	tests := []struct {
		level volatility.Level
		want  Priority
		found bool
	}{
		{volatility.LevelVeryHigh, PriorityHigh, true},
		{volatility.LevelHigh, PriorityMedium, true},
		{volatility.LevelModerate, "", false},
	}
	for _, tt := range tests {
		set := Generate(Input{AverageDailyCost: 100, Volatility: &volatility.Profile{Level: tt.level}})
		r, ok := find(set, TypeVolatilitySmoothing)
		if ok != tt.found {
			t.Fatalf("%s: expected found=%v", tt.level, tt.found)
		}
		if ok {
			if r.Priority != tt.want {
				t.Errorf("%s: expected %s, got %s", tt.level, tt.want, r.Priority)
			}
			expectSavings(t, r, 450)
		}
	}
}

func TestGenerate_GrowthControl(t *testing.T) {
	set := Generate(Input{
		AverageDailyCost: 100,
		Trend:            &trend.Metrics{Direction: trend.DirectionIncreasing, GrowthRatePct: 30},
	})
	r, ok := find(set, TypeGrowthControl)
	if !ok || r.Priority != PriorityHigh {
		t.Fatalf("Expected high growth control, got %+v", set.Recommendations)
	}
	expectSavings(t, r, 225)

	set = Generate(Input{
		AverageDailyCost: 100,
		Trend:            &trend.Metrics{Direction: trend.DirectionIncreasing, GrowthRatePct: 8},
	})
	if _, ok := find(set, TypeGrowthControl); ok {
		t.Error("Expected no growth control below 10% growth")
	}
}

func TestGenerate_AnomalyInvestigation(t *testing.T) {
	anomalies := []anomaly.Anomaly{
		{Severity: 5, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
		{Severity: 4, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
		{Severity: 4, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
		{Severity: 4, Type: anomaly.TypeLow, Cost: 10, ExpectedCost: 200},
		{Severity: 3, Type: anomaly.TypeHigh, Cost: 900, ExpectedCost: 200},
	}
	r, ok := find(Generate(Input{Anomalies: anomalies}), TypeAnomalyInvestigation)
	if !ok || r.Priority != PriorityHigh {
		t.Fatalf("Expected high anomaly investigation, got %+v", r)
	}
	expectSavings(t, r, 150)

	r, ok = find(Generate(Input{Anomalies: anomalies[3:]}), TypeAnomalyInvestigation)
	if !ok || r.Priority != PriorityMedium {
		t.Fatalf("Expected medium anomaly investigation, got %+v", r)
	}
	expectSavings(t, r, 0)
}

func TestGenerate_BudgetAlert(t *testing.T) {
	r, ok := find(Generate(Input{AverageDailyCost: 100, Forecast: flatForecast(150, 30)}), TypeBudgetAlert)
	if !ok || r.Priority != PriorityHigh {
		t.Fatalf("Expected high budget alert, got %+v", r)
	}
	expectSavings(t, r, 300)

	r, ok = find(Generate(Input{AverageDailyCost: 100, Forecast: flatForecast(115, 30)}), TypeBudgetAlert)
	if !ok || r.Priority != PriorityMedium {
		t.Fatalf("Expected medium budget alert, got %+v", r)
	}

	if _, ok := find(Generate(Input{AverageDailyCost: 100, Forecast: flatForecast(105, 30)}), TypeBudgetAlert); ok {
		t.Error("Expected no budget alert within 10% of the run rate")
	}
	if _, ok := find(Generate(Input{AverageDailyCost: 0, Forecast: flatForecast(105, 30)}), TypeBudgetAlert); ok {
		t.Error("Expected no budget alert without a run rate")
	}
}

func TestGenerate_CostShiftReview(t *testing.T) {
	points := []changepoint.ChangePoint{
		{Date: testDate, Type: changepoint.TypeIncrease, BeforeMean: 100, AfterMean: 115, Magnitude: 15, RelativeMagnitudePct: 15},
		{Date: testDate, Type: changepoint.TypeIncrease, BeforeMean: 100, AfterMean: 150, Magnitude: 50, RelativeMagnitudePct: 50},
		{Date: testDate, Type: changepoint.TypeDecrease, BeforeMean: 300, AfterMean: 100, Magnitude: 200, RelativeMagnitudePct: 66},
	}
	r, ok := find(Generate(Input{ChangePoints: points}), TypeCostShiftReview)
	if !ok || r.Priority != PriorityMedium {
		t.Fatalf("Expected medium cost shift review, got %+v", r)
	}
	expectSavings(t, r, 450)

	if _, ok := find(Generate(Input{ChangePoints: points[:1]}), TypeCostShiftReview); ok {
		t.Error("Expected no review for a shift under 20%")
	}
}

func TestGenerate_ScheduleOptimization(t *testing.T) {
	r, ok := find(Generate(Input{AverageDailyCost: 100, Seasonality: weeklyWithSaturdayPeak()}), TypeScheduleOptimization)
	if !ok || r.Priority != PriorityLow {
		t.Fatalf("Expected low schedule optimization, got %+v", r)
	}
	expectSavings(t, r, 24)
}

func TestGenerate_CommitmentDiscount(t *testing.T) {
	in := Input{
		AverageDailyCost: 100,
		Volatility:       &volatility.Profile{Level: volatility.LevelLow},
		Trend:            &trend.Metrics{Direction: trend.DirectionStable},
	}
	r, ok := find(Generate(in), TypeCommitmentDiscount)
	if !ok || r.Priority != PriorityLow {
		t.Fatalf("Expected low commitment discount, got %+v", r)
	}
	expectSavings(t, r, 300)
}

func TestGenerate_OrderingAndTotals(t *testing.T) {
	in := Input{
		AverageDailyCost: 100,
		Volatility:       &volatility.Profile{Level: volatility.LevelVeryHigh},
		Trend:            &trend.Metrics{Direction: trend.DirectionIncreasing, GrowthRatePct: 30},
		Anomalies: []anomaly.Anomaly{
			{Severity: 5, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
			{Severity: 5, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
			{Severity: 4, Type: anomaly.TypeHigh, Cost: 300, ExpectedCost: 200},
		},
		Forecast: flatForecast(150, 30),
		ChangePoints: []changepoint.ChangePoint{
			{Date: testDate, Type: changepoint.TypeIncrease, BeforeMean: 100, AfterMean: 150, Magnitude: 50, RelativeMagnitudePct: 50},
		},
		Seasonality: weeklyWithSaturdayPeak(),
	}
	set := Generate(in)

	want := []string{
		TypeVolatilitySmoothing,
		TypeBudgetAlert,
		TypeGrowthControl,
		TypeAnomalyInvestigation,
		TypeCostShiftReview,
		TypeScheduleOptimization,
	}
	if len(set.Recommendations) != len(want) {
		t.Fatalf("Expected %d recommendations, got %d", len(want), len(set.Recommendations))
	}
	for i, r := range set.Recommendations {
		if r.Type != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], r.Type)
		}
		if len(r.Actions) == 0 || r.Title == "" {
			t.Errorf("%s: missing title or actions", r.Type)
		}
	}
	if set.Counts != (Counts{High: 4, Medium: 1, Low: 1, Total: 6}) {
		t.Errorf("Unexpected counts %+v", set.Counts)
	}
	if !set.TotalEstimatedSavings.Equal(decimal.NewFromInt(1599)) {
		t.Errorf("Expected total 1599, got %s", set.TotalEstimatedSavings)
	}
}

func TestSavings_RoundsToCents(t *testing.T) {
	if got := savings(10, 1.0/3); got.String() != "3.33" {
		t.Errorf("Expected 3.33, got %s", got)
	}
	if got := savings(-50, 0.2); !got.IsZero() {
		t.Errorf("Expected zero for negative amounts, got %s", got)
	}
}
