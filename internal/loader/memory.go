package loader

import (
	"context"
	"sync"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// MemoryLoader serves rows held in memory. Safe for concurrent use.
type MemoryLoader struct {
	mu   sync.RWMutex
	rows []Row
}

// NewMemoryLoader creates a loader over a copy of rows.
func NewMemoryLoader(rows ...Row) *MemoryLoader {
	m := &MemoryLoader{}
	m.Add(rows...)
	return m
}

// Add appends rows.
func (m *MemoryLoader) Add(rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
}

// AddSeries appends one row per point of s under service.
func (m *MemoryLoader) AddSeries(service string, s analytics.Series) {
	rows := make([]Row, 0, s.Len())
	for _, p := range s.Points() {
		rows = append(rows, Row{Date: p.Date, Service: service, Cost: p.Cost, TransactionCount: p.TransactionCount})
	}
	m.Add(rows...)
}

// LoadDailyCosts implements Loader.
func (m *MemoryLoader) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	if err := ctx.Err(); err != nil {
		return analytics.Series{}, Upstream("memory", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Aggregate(m.rows, service, start, end)
}
