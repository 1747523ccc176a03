package trend

import (
	"fmt"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Detection thresholds.
const (
	WeeklyCVThreshold  = 0.10
	MonthlyCVThreshold = 0.15
	MinMonthlyPoints   = 60
	MinMonthlyGroups   = 15
	PeakLowBand        = 0.20
)

// WeeklySeasonality is the day-of-week test result.
type WeeklySeasonality struct {
	Detected      bool               `json:"detected"`
	DailyAverages map[string]float64 `json:"daily_averages"`
	CV            float64            `json:"cv"`
}

// MonthlySeasonality is the day-of-month test result.
type MonthlySeasonality struct {
	Detected      bool            `json:"detected"`
	DailyAverages map[int]float64 `json:"daily_averages"`
	CV            float64         `json:"cv"`
}

// SeasonalityReport combines the weekly and monthly periodicity tests.
type SeasonalityReport struct {
	HasSeasonality bool                                   `json:"has_seasonality"`
	Weekly         analytics.Optional[WeeklySeasonality]  `json:"weekly"`
	Monthly        analytics.Optional[MonthlySeasonality] `json:"monthly"`
	PeakDays       []string                               `json:"peak_days"`
	LowDays        []string                               `json:"low_days"`
}

// DetectSeasonality tests s for weekly and monthly periodicity. Tests that
// cannot run are reported unavailable rather than failing the whole report.
func DetectSeasonality(s analytics.Series) SeasonalityReport {
	report := SeasonalityReport{PeakDays: []string{}, LowDays: []string{}}
	overall := analytics.Mean(s.Costs())

	weekly, means, err := weeklyTest(s, overall)
	if err != nil {
		report.Weekly = analytics.None[WeeklySeasonality](err)
	} else {
		report.Weekly = analytics.Some(weekly)
		for d, m := range means {
			switch {
			case m > overall*(1+PeakLowBand):
				report.PeakDays = append(report.PeakDays, analytics.Weekdays[d])
			case m < overall*(1-PeakLowBand):
				report.LowDays = append(report.LowDays, analytics.Weekdays[d])
			}
		}
	}

	monthly, err := monthlyTest(s, overall)
	if err != nil {
		report.Monthly = analytics.None[MonthlySeasonality](err)
	} else {
		report.Monthly = analytics.Some(monthly)
	}

	report.HasSeasonality = weekly.Detected || monthly.Detected
	return report
}

func weeklyTest(s analytics.Series, overall float64) (WeeklySeasonality, [7]float64, error) {
	var groups [7][]float64
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		d := analytics.WeekdayIndex(p.Date)
		groups[d] = append(groups[d], p.Cost)
	}

	var means [7]float64
	for d, g := range groups {
		if len(g) < 2 {
			return WeeklySeasonality{}, means, fmt.Errorf("%w: weekly seasonality needs 2 samples for %s, have %d",
				analytics.ErrInsufficientData, analytics.Weekdays[d], len(g))
		}
		means[d] = analytics.Mean(g)
	}
	if err := analytics.RequireNonZero("weekly seasonality", "mean cost", overall); err != nil {
		return WeeklySeasonality{}, means, err
	}

	averages := make(map[string]float64, 7)
	for d, m := range means {
		averages[analytics.Weekdays[d]] = m
	}
	cv := analytics.StdDev(means[:]) / overall
	return WeeklySeasonality{
		Detected:      cv > WeeklyCVThreshold,
		DailyAverages: averages,
		CV:            cv,
	}, means, nil
}

func monthlyTest(s analytics.Series, overall float64) (MonthlySeasonality, error) {
	if err := analytics.RequirePoints("monthly seasonality", s.Len(), MinMonthlyPoints); err != nil {
		return MonthlySeasonality{}, err
	}

	groups := make(map[int][]float64, 31)
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		groups[p.Date.Day()] = append(groups[p.Date.Day()], p.Cost)
	}

	averages := make(map[int]float64, len(groups))
	var means []float64
	for day := 1; day <= 31; day++ {
		g := groups[day]
		if len(g) < 2 {
			continue
		}
		m := analytics.Mean(g)
		averages[day] = m
		means = append(means, m)
	}
	if len(means) < MinMonthlyGroups {
		return MonthlySeasonality{}, fmt.Errorf("%w: monthly seasonality needs %d days of month with 2 samples, have %d",
			analytics.ErrInsufficientData, MinMonthlyGroups, len(means))
	}
	if err := analytics.RequireNonZero("monthly seasonality", "mean cost", overall); err != nil {
		return MonthlySeasonality{}, err
	}

	cv := analytics.StdDev(means) / overall
	return MonthlySeasonality{
		Detected:      cv > MonthlyCVThreshold,
		DailyAverages: averages,
		CV:            cv,
	}, nil
}
