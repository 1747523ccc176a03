package forecast

import (
	"github.com/costwatch/costwatch/internal/analytics"
)

// Report is the complete forecast section of an analysis.
type Report struct {
	Horizon    int                                   `json:"horizon"`
	Methods    map[Method]analytics.Optional[Result] `json:"methods"`
	Ensemble   Ensemble                              `json:"ensemble"`
	Intervals  PredictionIntervals                   `json:"prediction_intervals"`
	Confidence float64                               `json:"confidence"`
}

// Run forecasts s with every default model, combines them and scores the result.
// Individual model failures are recorded in the report, not returned.
func Run(s analytics.Series, horizon int) (*Report, error) {
	return RunWith(DefaultForecasters(), s, horizon)
}

// RunWith is Run over an explicit set of models.
func RunWith(forecasters []Forecaster, s analytics.Series, horizon int) (*Report, error) {
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	if err := analytics.RequirePoints("forecast ensemble", s.Len(), MinEnsemblePoints); err != nil {
		return nil, err
	}

	report := &Report{
		Horizon: horizon,
		Methods: make(map[Method]analytics.Optional[Result], len(forecasters)),
	}
	var results []*Result
	excluded := map[Method]string{}
	for _, f := range forecasters {
		r, err := f.Forecast(s, horizon)
		if err != nil {
			excluded[f.Method()] = err.Error()
			report.Methods[f.Method()] = analytics.None[Result](err)
			continue
		}
		results = append(results, r)
		report.Methods[f.Method()] = analytics.Some(*r)
	}
	if len(excluded) == 0 {
		excluded = nil
	}

	history := s.Costs()
	report.Ensemble = Combine(results, excluded, s.End(), horizon)
	report.Intervals = Intervals(history, report.Ensemble.Values)
	report.Confidence = Confidence(history, results)
	return report, nil
}
