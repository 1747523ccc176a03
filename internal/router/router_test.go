package router

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/handlers"
	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/metrics"
	"github.com/costwatch/costwatch/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{testKey}}

	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	var rows []loader.Row
	for i := 30; i >= 1; i-- {
		rows = append(rows, loader.Row{Date: end.AddDate(0, 0, -i), Service: "compute", Cost: 100 + float64(i%4), TransactionCount: 5})
	}

	logger := logging.NewNop()
	m := metrics.New()
	svc := services.NewTrendService(logger, loader.NewMemoryLoader(rows...),
		services.WithConfig(cfg.Analysis),
		services.WithMetrics(m),
		services.WithClock(func() time.Time { return end.Add(9 * time.Hour) }),
	)
	return New(logger, handlers.New(logger, svc, cfg.Analysis), m, *cfg)
}

func do(t *testing.T, app *fiber.App, path, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRouter_PublicRoutes(t *testing.T) {
	app := newApp(t)

	status, body := do(t, app, "/health", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "healthy")

	status, _ = do(t, app, "/metrics", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRouter_TrendsRequireAPIKey(t *testing.T) {
	app := newApp(t)

	status, _ := do(t, app, "/v1/trends?service=compute", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := do(t, app, "/v1/trends?service=compute&forecast_days=7", testKey)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"analysis_period"`)
}

func TestRouter_MetricsAfterAnalysis(t *testing.T) {
	app := newApp(t)

	status, _ := do(t, app, "/v1/trends/recommendations?service=compute", testKey)
	require.Equal(t, fiber.StatusOK, status)

	_, body := do(t, app, "/metrics", "")
	assert.True(t, strings.Contains(body, "costwatch_analysis_total"), "analysis counter missing from /metrics")
}

func TestRouter_NotFound(t *testing.T) {
	status, body := do(t, newApp(t), "/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "NOT_FOUND")
}
