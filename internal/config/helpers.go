package config

import (
	"fmt"
	"net"
	"strconv"
)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// ClampDaysBack applies the default and the maximum to a requested look-back.
func (c *AnalysisConfig) ClampDaysBack(days int) int {
	if days <= 0 {
		return c.DefaultDaysBack
	}
	return min(days, c.MaxDaysBack)
}

// ClampForecastDays applies the default and the maximum to a requested horizon.
func (c *AnalysisConfig) ClampForecastDays(days int) int {
	if days <= 0 {
		return c.DefaultForecastDays
	}
	return min(days, c.MaxForecastDays)
}

// String summarizes the source for logs without exposing credentials.
func (c *SourceConfig) String() string {
	switch c.Type {
	case SourceCSV:
		return fmt.Sprintf("csv(%s)", c.CSVPath)
	case SourcePostgres:
		return fmt.Sprintf("postgres(%s)", c.Table)
	default:
		return c.Type
	}
}
