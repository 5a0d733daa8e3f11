package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
	"github.com/dmitrijs2005/staffdir/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout accepts "5s" style strings or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
	StorageBackend     string         `json:"storage_backend"`
	SQLitePath         string         `json:"sqlite_path"`
	DatabaseDSN        string         `json:"database_dsn"`
	RedisURL           string         `json:"redis_url"`
	RedisKeyPrefix     string         `json:"redis_key_prefix"`
}

// parseJson overlays Config with values loaded from the file given with
// -c or -config. Keys absent from the file leave the Config untouched.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.StorageBackend != "" {
		cfg.Storage.Backend = jc.StorageBackend
	}
	if jc.SQLitePath != "" {
		cfg.Storage.SQLitePath = jc.SQLitePath
	}
	if jc.DatabaseDSN != "" {
		cfg.Storage.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.RedisURL != "" {
		cfg.Storage.RedisURL = jc.RedisURL
	}
	if jc.RedisKeyPrefix != "" {
		cfg.Storage.RedisKeyPrefix = jc.RedisKeyPrefix
	}
}
