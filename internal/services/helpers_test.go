package services

import (
	"bytes"
	"time"

	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/rs/zerolog"
)

// today is the fixed clock used by service tests.
var today = time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

// spikeRows returns days of steady cost ending the day before today, with
// one large spike ten days before the end.
func spikeRows(service string, days int) []loader.Row {
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]loader.Row, 0, days)
	for i := days; i >= 1; i-- {
		cost := 100.0 + float64(i%3)
		if i == 10 {
			cost = 1000
		}
		rows = append(rows, loader.Row{
			Date:             end.AddDate(0, 0, -i),
			Service:          service,
			Cost:             cost,
			TransactionCount: 10,
		})
	}
	return rows
}

func bufferLogger() (*logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewWithWriter(&buf, zerolog.DebugLevel), &buf
}

func nopLogger() *logging.Logger {
	return logging.NewNop()
}
