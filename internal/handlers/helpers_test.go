package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)

// costRows returns days of steady cost ending the day before today with a
// spike ten days before the end.
func costRows(service string, days int) []loader.Row {
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]loader.Row, 0, days)
	for i := days; i >= 1; i-- {
		cost := 100.0 + float64(i%3)
		if i == 10 {
			cost = 1000
		}
		rows = append(rows, loader.Row{Date: end.AddDate(0, 0, -i), Service: service, Cost: cost, TransactionCount: 10})
	}
	return rows
}

func newTestApp(l loader.Loader) *fiber.App {
	logger := logging.NewNop()
	cfg := config.DefaultConfig().Analysis
	svc := services.NewTrendService(logger, l,
		services.WithConfig(cfg),
		services.WithClock(func() time.Time { return today }),
	)
	h := New(logger, svc, cfg)
	h.now = func() time.Time { return today }

	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/v1/trends", h.Trends)
	app.Get("/v1/trends/recommendations", h.Recommendations)
	app.Use(h.NotFound)
	return app
}

func get(t *testing.T, app *fiber.App, target string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}
