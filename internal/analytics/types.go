// Package analytics provides the shared types and helpers for daily cost
// analysis: the cost series, the error taxonomy, optional report sections and
// the statistics primitives used by the trend, forecast, anomaly, changepoint,
// volatility and recommend packages.
package analytics

import (
	"fmt"
	"math"
	"time"
)

// CostPoint is one calendar day of cost data.
type CostPoint struct {
	Date               time.Time `json:"date"`
	Cost               float64   `json:"cost"`
	TransactionCount   int       `json:"transaction_count"`
	AvgTransactionCost float64   `json:"avg_transaction_cost"`
}

// Series is an ordered, immutable sequence of daily cost points.
// The zero value is an empty series.
type Series struct {
	points []CostPoint
}

// NewSeries validates points and returns a Series that owns a copy of them.
// Dates are normalized to UTC midnight and must be strictly increasing; costs
// must be finite and non-negative.
func NewSeries(points []CostPoint) (Series, error) {
	owned := make([]CostPoint, len(points))
	for i, p := range points {
		if math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0) || p.Cost < 0 {
			return Series{}, fmt.Errorf("%w: point %d has invalid cost %v", ErrUpstreamFailure, i, p.Cost)
		}
		p.Date = Day(p.Date)
		if i > 0 && !p.Date.After(owned[i-1].Date) {
			return Series{}, fmt.Errorf("%w: point %d date %s is not after %s",
				ErrUpstreamFailure, i, p.Date.Format(DateLayout), owned[i-1].Date.Format(DateLayout))
		}
		owned[i] = p
	}
	return Series{points: owned}, nil
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.points)
}

// At returns the i-th point.
func (s Series) At(i int) CostPoint {
	return s.points[i]
}

// Points returns a copy of the points.
func (s Series) Points() []CostPoint {
	out := make([]CostPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Costs extracts the cost values.
func (s Series) Costs() []float64 {
	values := make([]float64, len(s.points))
	for i, p := range s.points {
		values[i] = p.Cost
	}
	return values
}

// Dates extracts the calendar dates.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, p := range s.points {
		dates[i] = p.Date
	}
	return dates
}

// Start returns the first date, or the zero time for an empty series.
func (s Series) Start() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[0].Date
}

// End returns the last date, or the zero time for an empty series.
func (s Series) End() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[len(s.points)-1].Date
}

// Total returns the summed cost.
func (s Series) Total() float64 {
	total := 0.0
	for _, p := range s.points {
		total += p.Cost
	}
	return total
}
