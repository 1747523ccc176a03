package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/costwatch") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides, e.g. COSTWATCH_SOURCE_DSN
	v.SetEnvPrefix("COSTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// Source defaults
	v.SetDefault("source.type", d.Source.Type)
	v.SetDefault("source.table", d.Source.Table)
	v.SetDefault("source.timeout", d.Source.Timeout)

	// Cache defaults
	v.SetDefault("cache.lru_size", d.Cache.LRUSize)
	v.SetDefault("cache.lru_ttl", d.Cache.LRUTTL)
	v.SetDefault("cache.redis_ttl", d.Cache.RedisTTL)
	v.SetDefault("cache.redis_prefix", d.Cache.RedisPrefix)

	// Alerts defaults
	v.SetDefault("alerts.enabled", false)
	v.SetDefault("alerts.type", d.Alerts.Type)
	v.SetDefault("alerts.url", d.Alerts.URL)
	v.SetDefault("alerts.subject_prefix", d.Alerts.SubjectPrefix)
	v.SetDefault("alerts.min_severity", d.Alerts.MinSeverity)

	// Analysis defaults
	v.SetDefault("analysis.default_days_back", d.Analysis.DefaultDaysBack)
	v.SetDefault("analysis.default_forecast_days", d.Analysis.DefaultForecastDays)
	v.SetDefault("analysis.max_days_back", d.Analysis.MaxDaysBack)
	v.SetDefault("analysis.max_forecast_days", d.Analysis.MaxForecastDays)
	v.SetDefault("analysis.parallel", d.Analysis.Parallel)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        5555,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Source: SourceConfig{
			Type:    SourceMemory,
			Table:   "daily_costs",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			LRUSize:     256,
			LRUTTL:      5 * time.Minute,
			RedisTTL:    15 * time.Minute,
			RedisPrefix: "costwatch:series",
		},
		Alerts: AlertsConfig{
			Type:          "nats",
			URL:           "nats://localhost:4222",
			SubjectPrefix: "costwatch",
			MinSeverity:   4,
		},
		Analysis: AnalysisConfig{
			DefaultDaysBack:     90,
			DefaultForecastDays: 30,
			MaxDaysBack:         730,
			MaxForecastDays:     365,
			Parallel:            true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
