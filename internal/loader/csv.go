package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Positional layout used when a CSV file has no header row.
var defaultColumns = []string{"date", "cost", "transaction_count", "avg_transaction_cost"}

// CSVLoader reads a cost export on every load. Put a CachedLoader in front
// of it to avoid re-reading the file.
type CSVLoader struct {
	Path string
}

// NewCSVLoader creates a loader over the file at path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path}
}

// LoadDailyCosts implements Loader.
func (l *CSVLoader) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	if err := ctx.Err(); err != nil {
		return analytics.Series{}, Upstream("csv", err)
	}
	rows, err := ReadCSVFile(l.Path)
	if err != nil {
		return analytics.Series{}, err
	}
	return Aggregate(rows, service, start, end)
}

// ReadCSVFile parses the export at path.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Upstream("csv", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV parses cost rows. A header row naming date, cost and optionally
// service and transaction_count is honored in any column order; without a
// header the columns are date,cost[,transaction_count,avg_transaction_cost].
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows   []Row
		index  map[string]int
		lineNo int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Upstream("csv", err)
		}
		lineNo++

		if index == nil {
			if _, derr := parseDate(record[0]); derr != nil {
				index, err = headerIndex(record)
				if err != nil {
					return nil, Upstream("csv", err)
				}
				continue
			}
			index = columnIndex(defaultColumns)
		}

		row, err := parseRecord(record, index)
		if err != nil {
			return nil, Upstream("csv", fmt.Errorf("line %d: %w", lineNo, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnIndex(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func headerIndex(header []string) (map[string]int, error) {
	index := columnIndex(header)
	for _, required := range []string{"date", "cost"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("header is missing the %q column", required)
		}
	}
	return index, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(record []string, index map[string]int) (Row, error) {
	date, err := parseDate(field(record, index, "date"))
	if err != nil {
		return Row{}, err
	}

	cost, err := strconv.ParseFloat(field(record, index, "cost"), 64)
	if err != nil {
		return Row{}, fmt.Errorf("invalid cost: %w", err)
	}

	row := Row{Date: date, Service: field(record, index, "service"), Cost: cost}
	if raw := field(record, index, "transaction_count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return Row{}, fmt.Errorf("invalid transaction_count: %w", err)
		}
		row.TransactionCount = count
	}
	return row, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(analytics.DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}
