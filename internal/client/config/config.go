package config

import (
	"time"

	"github.com/dmitrijs2005/staffdir/internal/kvstore"
)

// Config holds runtime settings for the staff console.
//
// Fields:
//   - ServerEndpointAddr: host:port of the directory server. Empty selects
//     local mode, where the console opens Storage itself.
//   - RequestTimeout: upper bound for a single remote call.
//   - LogLevel: level of the diagnostic log written to stderr.
//   - Storage: backend used in local mode.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	LogLevel           string
	Storage            kvstore.Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = ""
	c.RequestTimeout = 5 * time.Second
	c.LogLevel = "warn"
	c.Storage = kvstore.Config{
		Backend:        kvstore.BackendSQLite,
		SQLitePath:     "data/staffdir.db",
		RedisKeyPrefix: "staffdir:",
	}
}

// LocalMode reports whether the console works against its own store.
func (c *Config) LocalMode() bool {
	return c.ServerEndpointAddr == ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
