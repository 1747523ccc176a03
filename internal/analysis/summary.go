package analysis

import (
	"slices"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/trend"
)

// HighSeverity is the anomaly severity counted as high in a Summary.
const HighSeverity = 4

// Summary is the headline view of a Result.
type Summary struct {
	TotalCost             float64         `json:"total_cost"`
	AverageDailyCost      float64         `json:"average_daily_cost"`
	MinDailyCost          float64         `json:"min_daily_cost"`
	MaxDailyCost          float64         `json:"max_daily_cost"`
	Days                  int             `json:"days"`
	CurrentMonthlyAverage float64         `json:"current_monthly_average"`
	ProjectedTotal        float64         `json:"projected_total"`
	ProjectedMonthly      float64         `json:"projected_monthly"`
	Confidence            float64         `json:"confidence"`
	AnomalyCount          int             `json:"anomaly_count"`
	HighSeverityAnomalies int             `json:"high_severity_anomalies"`
	ChangePointCount      int             `json:"change_point_count"`
	HasSeasonality        bool            `json:"has_seasonality"`
	TrendDirection        trend.Direction `json:"trend_direction,omitempty"`
	Unavailable           []string        `json:"unavailable"`
}

func summarize(s analytics.Series, r *Result) Summary {
	costs := s.Costs()
	sum := Summary{
		TotalCost:        s.Total(),
		AverageDailyCost: analytics.Mean(costs),
		MinDailyCost:     slices.Min(costs),
		MaxDailyCost:     slices.Max(costs),
		Days:             s.Len(),
		AnomalyCount:     len(r.Anomalies),
		HasSeasonality:   r.Seasonality.HasSeasonality,
		Unavailable:      []string{},
	}
	sum.CurrentMonthlyAverage = sum.AverageDailyCost * 30

	for _, a := range r.Anomalies {
		if a.Severity >= HighSeverity {
			sum.HighSeverityAnomalies++
		}
	}

	if report, ok := r.Forecasts.Get(); ok {
		for _, v := range report.Ensemble.Values {
			sum.ProjectedTotal += v
		}
		sum.ProjectedMonthly = analytics.Mean(report.Ensemble.Values) * 30
		sum.Confidence = report.Confidence
	} else {
		sum.Unavailable = append(sum.Unavailable, SectionForecasts)
	}

	if m, ok := r.TrendMetrics.Get(); ok {
		sum.TrendDirection = m.Direction
	} else {
		sum.Unavailable = append(sum.Unavailable, SectionTrendMetrics)
	}

	if points, ok := r.ChangePoints.Get(); ok {
		sum.ChangePointCount = len(points)
	} else {
		sum.Unavailable = append(sum.Unavailable, SectionChangePoints)
	}

	if !r.TrendComponents.Available() {
		sum.Unavailable = append(sum.Unavailable, SectionTrendComponents)
	}
	if !r.VolatilityAnalysis.Available() {
		sum.Unavailable = append(sum.Unavailable, SectionVolatility)
	}
	slices.Sort(sum.Unavailable)
	return sum
}
