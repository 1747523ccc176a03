package loader

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLLoader aggregates raw cost rows stored in a Postgres table with the
// columns usage_date, service, cost and transaction_count.
type SQLLoader struct {
	db    *sql.DB
	table string
}

// OpenPostgres opens a pgx-backed database handle for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, Upstream("postgres", err)
	}
	return db, nil
}

// NewSQLLoader creates a loader reading from table over db.
func NewSQLLoader(db *sql.DB, table string) (*SQLLoader, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLLoader{db: db, table: table}, nil
}

func (l *SQLLoader) query(byService bool) string {
	q := `SELECT usage_date, COALESCE(SUM(cost), 0), COALESCE(SUM(transaction_count), 0)
FROM ` + l.table + `
WHERE usage_date >= $1 AND usage_date < $2`
	if byService {
		q += ` AND service = $3`
	}
	return q + `
GROUP BY usage_date
ORDER BY usage_date`
}

// LoadDailyCosts implements Loader.
func (l *SQLLoader) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	args := []any{analytics.Day(start), analytics.Day(end)}
	if service != "" {
		args = append(args, service)
	}

	rows, err := l.db.QueryContext(ctx, l.query(service != ""), args...)
	if err != nil {
		return analytics.Series{}, Upstream("postgres", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Date, &r.Cost, &r.TransactionCount); err != nil {
			return analytics.Series{}, Upstream("postgres", err)
		}
		r.Service = service
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return analytics.Series{}, Upstream("postgres", err)
	}

	// The query already groups by day; Aggregate normalizes dates and validates.
	return Aggregate(out, service, time.Time{}, time.Time{})
}

// Close closes the underlying database handle.
func (l *SQLLoader) Close() error {
	return l.db.Close()
}
