// Package loader implements the daily cost source consumed by the trend
// service: raw per-service cost rows are filtered to a date range, summed per
// calendar day and returned as an analytics.Series.
package loader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Loader returns the daily cost series of a service over [start, end).
// An empty service selects every service.
type Loader interface {
	LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, service string, start, end time.Time) (analytics.Series, error)

// LoadDailyCosts calls f.
func (f LoaderFunc) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	return f(ctx, service, start, end)
}

// Row is one raw cost record. Several rows may share a date; they are summed.
type Row struct {
	Date             time.Time
	Service          string
	Cost             float64
	TransactionCount int
}

// Upstream wraps err as an ErrUpstreamFailure from op.
func Upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", analytics.ErrUpstreamFailure, op, err)
}

// Aggregate sums the rows matching service and falling in [start, end) into
// one point per calendar day. A zero start or end leaves that side open.
func Aggregate(rows []Row, service string, start, end time.Time) (analytics.Series, error) {
	start, end = dayOrZero(start), dayOrZero(end)

	byDay := make(map[time.Time]*analytics.CostPoint)
	for _, r := range rows {
		if service != "" && r.Service != service {
			continue
		}
		day := analytics.Day(r.Date)
		if !start.IsZero() && day.Before(start) {
			continue
		}
		if !end.IsZero() && !day.Before(end) {
			continue
		}
		if r.Cost < 0 {
			return analytics.Series{}, fmt.Errorf("%w: negative cost %v on %s",
				analytics.ErrUpstreamFailure, r.Cost, day.Format(analytics.DateLayout))
		}
		p, ok := byDay[day]
		if !ok {
			p = &analytics.CostPoint{Date: day}
			byDay[day] = p
		}
		p.Cost += r.Cost
		p.TransactionCount += r.TransactionCount
	}

	points := make([]analytics.CostPoint, 0, len(byDay))
	for _, p := range byDay {
		if p.TransactionCount > 0 {
			p.AvgTransactionCost = p.Cost / float64(p.TransactionCount)
		}
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return analytics.NewSeries(points)
}

// Services lists the distinct non-empty services in rows, sorted.
func Services(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if r.Service != "" {
			seen[r.Service] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func dayOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return analytics.Day(t)
}

// WithTimeout bounds every load of next by d. A non-positive d returns next unchanged.
func WithTimeout(next Loader, d time.Duration) Loader {
	if d <= 0 {
		return next
	}
	return LoaderFunc(func(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.LoadDailyCosts(ctx, service, start, end)
	})
}
