// Package recommend turns an assembled cost analysis into prioritized,
// rule-based optimization recommendations.
package recommend

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/anomaly"
	"github.com/costwatch/costwatch/internal/analytics/changepoint"
	"github.com/costwatch/costwatch/internal/analytics/forecast"
	"github.com/costwatch/costwatch/internal/analytics/trend"
	"github.com/costwatch/costwatch/internal/analytics/volatility"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation types.
const (
	TypeVolatilitySmoothing  = "volatility_smoothing"
	TypeGrowthControl        = "growth_control"
	TypeAnomalyInvestigation = "anomaly_investigation"
	TypeBudgetAlert          = "budget_alert"
	TypeCostShiftReview      = "cost_shift_review"
	TypeScheduleOptimization = "schedule_optimization"
	TypeCommitmentDiscount   = "commitment_discount"
)

// MaxRecommendations caps a Set.
const MaxRecommendations = 10

// daysPerMonth converts daily averages to monthly amounts.
const daysPerMonth = 30

// Recommendation is one suggested action.
type Recommendation struct {
	Type             string          `json:"type"`
	Priority         Priority        `json:"priority"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Actions          []string        `json:"actions"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
	Impact           string          `json:"impact"`
}

// Counts tallies a Set by priority.
type Counts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Total  int `json:"total"`
}

// Set is the ranked output of Generate.
type Set struct {
	Recommendations       []Recommendation `json:"recommendations"`
	Counts                Counts           `json:"counts"`
	TotalEstimatedSavings decimal.Decimal  `json:"total_estimated_savings"`
}

// Input carries the analysis sections the rules read. A nil section
// suppresses every rule that depends on it.
type Input struct {
	AverageDailyCost float64
	Trend            *trend.Metrics
	Seasonality      *trend.SeasonalityReport
	Volatility       *volatility.Profile
	Forecast         *forecast.Ensemble
	Anomalies        []anomaly.Anomaly
	ChangePoints     []changepoint.ChangePoint
}

type rule func(in Input, monthly float64) (Recommendation, bool)

var rules = []rule{
	volatilitySmoothing,
	growthControl,
	anomalyInvestigation,
	budgetAlert,
	costShiftReview,
	scheduleOptimization,
	commitmentDiscount,
}

// Generate evaluates every rule against in and returns the top
// recommendations ordered by priority, then estimated savings.
func Generate(in Input) Set {
	monthly := in.AverageDailyCost * daysPerMonth

	recs := []Recommendation{}
	for _, r := range rules {
		if rec, ok := r(in, monthly); ok {
			recs = append(recs, rec)
		}
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		if c := cmp.Compare(a.Priority.rank(), b.Priority.rank()); c != 0 {
			return c
		}
		return b.EstimatedSavings.Cmp(a.EstimatedSavings)
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}

	set := Set{Recommendations: recs, TotalEstimatedSavings: decimal.Zero}
	for _, r := range recs {
		switch r.Priority {
		case PriorityHigh:
			set.Counts.High++
		case PriorityMedium:
			set.Counts.Medium++
		case PriorityLow:
			set.Counts.Low++
		}
		set.TotalEstimatedSavings = set.TotalEstimatedSavings.Add(r.EstimatedSavings)
	}
	set.Counts.Total = len(recs)
	return set
}

// savings returns share of amount rounded to cents, never negative.
func savings(amount, share float64) decimal.Decimal {
	d := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(share)).Round(2)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func volatilitySmoothing(in Input, monthly float64) (Recommendation, bool) {
	if in.Volatility == nil {
		return Recommendation{}, false
	}
	var p Priority
	switch in.Volatility.Level {
	case volatility.LevelVeryHigh:
		p = PriorityHigh
	case volatility.LevelHigh:
		p = PriorityMedium
	default:
		return Recommendation{}, false
	}
	return Recommendation{
		Type:     TypeVolatilitySmoothing,
		Priority: p,
		Title:    "Reduce cost volatility",
		Description: fmt.Sprintf("Daily costs vary with a coefficient of variation of %.2f (%s).",
			in.Volatility.CoefficientOfVariation, in.Volatility.Level),
		Actions: []string{
			"Identify workloads with bursty usage and schedule them evenly",
			"Set per-service spend limits to cap daily peaks",
			"Review autoscaling thresholds for over-provisioning",
		},
		EstimatedSavings: savings(monthly, 0.15),
		Impact:           "Steadier spend and fewer budget surprises",
	}, true
}

func growthControl(in Input, monthly float64) (Recommendation, bool) {
	if in.Trend == nil || in.Trend.Direction != trend.DirectionIncreasing {
		return Recommendation{}, false
	}
	growth := in.Trend.GrowthRatePct
	var p Priority
	switch {
	case growth > 25:
		p = PriorityHigh
	case growth > 10:
		p = PriorityMedium
	default:
		return Recommendation{}, false
	}
	return Recommendation{
		Type:        TypeGrowthControl,
		Priority:    p,
		Title:       "Control cost growth",
		Description: fmt.Sprintf("Costs grew %.1f%% between the start and end of the period.", growth),
		Actions: []string{
			"Break down growth by service to find the main contributors",
			"Confirm the growth matches planned usage",
			"Right-size resources that scaled without matching demand",
		},
		EstimatedSavings: savings(monthly*growth/100, 0.25),
		Impact:           "Slower month-over-month cost growth",
	}, true
}

func anomalyInvestigation(in Input, _ float64) (Recommendation, bool) {
	var severe int
	var excess float64
	for _, a := range in.Anomalies {
		if a.Severity < 4 {
			continue
		}
		severe++
		if a.Type == anomaly.TypeHigh {
			excess += a.Cost - a.ExpectedCost
		}
	}
	if severe == 0 {
		return Recommendation{}, false
	}
	p := PriorityMedium
	if severe >= 3 {
		p = PriorityHigh
	}
	return Recommendation{
		Type:        TypeAnomalyInvestigation,
		Priority:    p,
		Title:       "Investigate cost anomalies",
		Description: fmt.Sprintf("%d high-severity anomalies added %s above expected cost.", severe, money(excess)),
		Actions: []string{
			"Inspect usage logs for the flagged days",
			"Check for runaway jobs, retries or misconfigured deployments",
			"Add alerts for daily spend above the expected range",
		},
		EstimatedSavings: savings(excess, 0.5),
		Impact:           "Prevents repeat spend spikes",
	}, true
}

func budgetAlert(in Input, monthly float64) (Recommendation, bool) {
	if in.Forecast == nil || len(in.Forecast.Values) == 0 || monthly <= 0 {
		return Recommendation{}, false
	}
	projected := analytics.Mean(in.Forecast.Values) * daysPerMonth
	ratio := projected / monthly
	var p Priority
	switch {
	case ratio > 1.25:
		p = PriorityHigh
	case ratio > 1.10:
		p = PriorityMedium
	default:
		return Recommendation{}, false
	}
	return Recommendation{
		Type:     TypeBudgetAlert,
		Priority: p,
		Title:    "Projected spend exceeds current run rate",
		Description: fmt.Sprintf("Forecast monthly cost %s is %.0f%% above the current monthly average %s.",
			money(projected), (ratio-1)*100, money(monthly)),
		Actions: []string{
			"Review the budget for the coming month",
			"Set a spend alert at the current monthly average",
			"Plan capacity changes before the projected increase lands",
		},
		EstimatedSavings: savings(projected-monthly, 0.2),
		Impact:           "Keeps next month's spend within budget",
	}, true
}

func costShiftReview(in Input, _ float64) (Recommendation, bool) {
	var largest *changepoint.ChangePoint
	for i := range in.ChangePoints {
		cp := &in.ChangePoints[i]
		if cp.Type != changepoint.TypeIncrease || cp.RelativeMagnitudePct <= 20 {
			continue
		}
		if largest == nil || cp.Magnitude > largest.Magnitude {
			largest = cp
		}
	}
	if largest == nil {
		return Recommendation{}, false
	}
	return Recommendation{
		Type:     TypeCostShiftReview,
		Priority: PriorityMedium,
		Title:    "Review a sustained cost increase",
		Description: fmt.Sprintf("Average daily cost rose %.0f%% from %s to %s around %s.",
			largest.RelativeMagnitudePct, money(largest.BeforeMean), money(largest.AfterMean),
			largest.Date.Format(analytics.DateLayout)),
		Actions: []string{
			"Correlate the shift date with deployments and configuration changes",
			"Confirm the new baseline is expected",
		},
		EstimatedSavings: savings((largest.AfterMean-largest.BeforeMean)*daysPerMonth, 0.3),
		Impact:           "Catches unintended baseline changes",
	}, true
}

func scheduleOptimization(in Input, _ float64) (Recommendation, bool) {
	if in.Seasonality == nil || len(in.Seasonality.PeakDays) == 0 {
		return Recommendation{}, false
	}
	weekly, ok := in.Seasonality.Weekly.Get()
	if !ok || !weekly.Detected {
		return Recommendation{}, false
	}
	var excess float64
	for _, day := range in.Seasonality.PeakDays {
		excess += (weekly.DailyAverages[day] - in.AverageDailyCost) * 4
	}
	return Recommendation{
		Type:        TypeScheduleOptimization,
		Priority:    PriorityLow,
		Title:       "Rebalance peak-day workloads",
		Description: fmt.Sprintf("Costs peak on %s.", strings.Join(in.Seasonality.PeakDays, ", ")),
		Actions: []string{
			"Move deferrable batch work off peak days",
			"Scale down non-production environments on low days",
		},
		EstimatedSavings: savings(excess, 0.1),
		Impact:           "Flatter weekly cost profile",
	}, true
}

func commitmentDiscount(in Input, monthly float64) (Recommendation, bool) {
	if in.Volatility == nil || in.Trend == nil {
		return Recommendation{}, false
	}
	if in.Volatility.Level != volatility.LevelLow || in.Trend.Direction != trend.DirectionStable {
		return Recommendation{}, false
	}
	return Recommendation{
		Type:        TypeCommitmentDiscount,
		Priority:    PriorityLow,
		Title:       "Consider committed-use pricing",
		Description: "Spend is stable and predictable, which suits reserved or committed-use discounts.",
		Actions: []string{
			"Compare reserved and on-demand pricing for steady workloads",
			"Commit to the stable baseline only",
		},
		EstimatedSavings: savings(monthly, 0.1),
		Impact:           "Lower unit price for baseline usage",
	}, true
}
