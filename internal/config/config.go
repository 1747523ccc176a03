package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Source   SourceConfig   `mapstructure:"source"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`             // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort        int           `mapstructure:"http_port"`        // HTTP server port
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`     // Per-request read timeout
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`    // Per-request write timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // Graceful shutdown budget
}

// Source types
const (
	SourceMemory   = "memory"
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// SourceConfig selects where daily cost rows are loaded from
type SourceConfig struct {
	Type    string        `mapstructure:"type"`     // memory, csv, postgres
	DSN     string        `mapstructure:"dsn"`      // Postgres connection string
	CSVPath string        `mapstructure:"csv_path"` // CSV export path
	Table   string        `mapstructure:"table"`    // Table or view holding raw cost rows
	Timeout time.Duration `mapstructure:"timeout"`  // Per-load timeout imposed on the source
}

// CacheConfig represents series cache configuration
type CacheConfig struct {
	LRUSize     int           `mapstructure:"lru_size"`     // In-process entries; 0 disables the LRU
	LRUTTL      time.Duration `mapstructure:"lru_ttl"`      // In-process entry lifetime
	RedisURL    string        `mapstructure:"redis_url"`    // Shared cache; empty disables Redis
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`    // Shared entry lifetime
	RedisPrefix string        `mapstructure:"redis_prefix"` // Key prefix (default: "costwatch:series")
}

// AlertsConfig represents alert event publishing configuration
type AlertsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Type          string `mapstructure:"type"`           // Queue type: nats (default), redis, kafka, memory
	URL           string `mapstructure:"url"`            // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username      string `mapstructure:"username"`       // Optional authentication
	Password      string `mapstructure:"password"`       // Optional authentication
	SubjectPrefix string `mapstructure:"subject_prefix"` // Event subject prefix (default: "costwatch")
	MinSeverity   int    `mapstructure:"min_severity"`   // Lowest anomaly severity published

	// Redis-specific options
	RedisDB int `mapstructure:"redis_db"` // Redis database number (default: 0)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AnalysisConfig bounds analysis requests
type AnalysisConfig struct {
	DefaultDaysBack     int  `mapstructure:"default_days_back"`
	DefaultForecastDays int  `mapstructure:"default_forecast_days"`
	MaxDaysBack         int  `mapstructure:"max_days_back"`
	MaxForecastDays     int  `mapstructure:"max_forecast_days"`
	Parallel            bool `mapstructure:"parallel"` // Compute independent sections concurrently
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Alerts.Validate(); err != nil {
		return fmt.Errorf("alerts config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates source configuration
func (c *SourceConfig) Validate() error {
	switch c.Type {
	case SourceMemory:
	case SourceCSV:
		if c.CSVPath == "" {
			return fmt.Errorf("source.csv_path is required for csv sources")
		}
	case SourcePostgres:
		if c.DSN == "" {
			return fmt.Errorf("source.dsn is required for postgres sources")
		}
		if c.Table == "" {
			return fmt.Errorf("source.table is required for postgres sources")
		}
	default:
		return fmt.Errorf("source.type must be one of: memory, csv, postgres")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("source.timeout cannot be negative")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	if c.LRUSize < 0 {
		return fmt.Errorf("cache.lru_size cannot be negative")
	}

	if c.LRUSize > 0 && c.LRUTTL <= 0 {
		return fmt.Errorf("cache.lru_ttl must be positive when the LRU is enabled")
	}

	if c.RedisURL != "" && c.RedisTTL <= 0 {
		return fmt.Errorf("cache.redis_ttl must be positive when redis is enabled")
	}

	return nil
}

// Validate validates alerts configuration
func (c *AlertsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Type {
	case "", "nats", "redis", "memory":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("alerts.kafka_brokers is required for kafka alerts")
		}
	default:
		return fmt.Errorf("alerts.type must be one of: nats, redis, kafka, memory")
	}

	if c.MinSeverity < 1 || c.MinSeverity > 5 {
		return fmt.Errorf("alerts.min_severity must be between 1 and 5")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.MaxDaysBack < 7 {
		return fmt.Errorf("analysis.max_days_back must be at least 7")
	}

	if c.MaxForecastDays < 1 {
		return fmt.Errorf("analysis.max_forecast_days must be at least 1")
	}

	if c.DefaultDaysBack < 7 || c.DefaultDaysBack > c.MaxDaysBack {
		return fmt.Errorf("analysis.default_days_back must be between 7 and analysis.max_days_back")
	}

	if c.DefaultForecastDays < 1 || c.DefaultForecastDays > c.MaxForecastDays {
		return fmt.Errorf("analysis.default_forecast_days must be between 1 and analysis.max_forecast_days")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
