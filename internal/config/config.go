// Package config holds process configuration: environment-derived settings
// and the YAML search-file model.
package config

import (
	pkgconfig "campwatch/pkg/config"
)

// Config carries the environment-derived settings the binary needs. It is
// built once in main and passed down; packages never read the environment
// themselves.
type Config struct {
	// RIDBAPIKey authenticates RIDB metadata requests (RIDB_API_KEY).
	RIDBAPIKey string

	// DatabaseURL enables the optional Postgres metadata index when set
	// (DATABASE_URL). The search path never requires it.
	DatabaseURL string

	// MetricsPort is the Prometheus /metrics listen port used in
	// continuous mode (METRICS_PORT).
	MetricsPort int
}

// DefaultMetricsPort is where the metrics server listens unless overridden.
const DefaultMetricsPort = 9090

// FromEnv reads the process configuration from environment variables.
func FromEnv() Config {
	return Config{
		RIDBAPIKey:  pkgconfig.GetEnvString("RIDB_API_KEY", ""),
		DatabaseURL: pkgconfig.GetEnvString("DATABASE_URL", ""),
		MetricsPort: pkgconfig.GetEnvInt("METRICS_PORT", DefaultMetricsPort),
	}
}
