package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	withSource := func(s SourceConfig) *Config {
		cfg := DefaultConfig()
		cfg.Source = s
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "invalid http port",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.HTTPPort = 0
				return cfg
			}(),
			wantErr: true,
		},
		{
			name:    "csv source without path",
			config:  withSource(SourceConfig{Type: SourceCSV}),
			wantErr: true,
		},
		{
			name:    "csv source with path",
			config:  withSource(SourceConfig{Type: SourceCSV, CSVPath: "costs.csv"}),
			wantErr: false,
		},
		{
			name:    "postgres source without dsn",
			config:  withSource(SourceConfig{Type: SourcePostgres, Table: "daily_costs"}),
			wantErr: true,
		},
		{
			name:    "unknown source type",
			config:  withSource(SourceConfig{Type: "bigquery"}),
			wantErr: true,
		},
		{
			name: "lru enabled without ttl",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Cache.LRUTTL = 0
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "kafka alerts without brokers",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Alerts.Enabled = true
				cfg.Alerts.Type = "kafka"
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "alert severity out of range",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Alerts.Enabled = true
				cfg.Alerts.MinSeverity = 6
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "default days back above maximum",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Analysis.DefaultDaysBack = 1000
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid logging level",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Logging.Level = "invalid"
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 5555 {
		t.Errorf("expected HTTPPort 5555, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Source.Table != "daily_costs" {
		t.Errorf("expected table daily_costs, got %s", cfg.Source.Table)
	}

	if cfg.Cache.LRUTTL != 5*time.Minute {
		t.Errorf("expected LRU TTL 5m, got %v", cfg.Cache.LRUTTL)
	}

	if cfg.Analysis.DefaultDaysBack != 90 || cfg.Analysis.DefaultForecastDays != 30 {
		t.Errorf("unexpected analysis defaults: %+v", cfg.Analysis)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsProduction() {
		t.Error("default config should be production mode")
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	if !cfg.IsDevelopment() {
		t.Error("config with debug/console should be development mode")
	}

	if addr := cfg.GetServerAddress(); addr != "0.0.0.0:5555" {
		t.Errorf("expected '0.0.0.0:5555', got %s", addr)
	}
}

func TestAnalysisClamp(t *testing.T) {
	a := DefaultConfig().Analysis

	if got := a.ClampDaysBack(0); got != 90 {
		t.Errorf("expected default 90, got %d", got)
	}
	if got := a.ClampDaysBack(5000); got != 730 {
		t.Errorf("expected max 730, got %d", got)
	}
	if got := a.ClampForecastDays(14); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
	if got := a.ClampForecastDays(-1); got != 30 {
		t.Errorf("expected default 30, got %d", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 8080
source:
  type: csv
  csv_path: /tmp/costs.csv
analysis:
  default_forecast_days: 14
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Source.Type != SourceCSV || cfg.Source.CSVPath != "/tmp/costs.csv" {
		t.Errorf("unexpected source: %+v", cfg.Source)
	}
	if cfg.Analysis.DefaultForecastDays != 14 {
		t.Errorf("expected forecast days 14, got %d", cfg.Analysis.DefaultForecastDays)
	}
	// Untouched keys keep their defaults
	if cfg.Source.Table != "daily_costs" {
		t.Errorf("expected default table, got %s", cfg.Source.Table)
	}
	if cfg.Cache.LRUTTL != 5*time.Minute {
		t.Errorf("expected default LRU TTL, got %v", cfg.Cache.LRUTTL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COSTWATCH_SERVER_HTTP_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("expected env override 9090, got %d", cfg.Server.HTTPPort)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}

	if cfg := LoadOrDefault(path); cfg.Logging.Level != "info" {
		t.Errorf("LoadOrDefault should fall back to defaults, got level %s", cfg.Logging.Level)
	}
}
