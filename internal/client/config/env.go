package config

import "github.com/spf13/viper"

// parseEnv overlays STAFFDIR_* variables. The storage keys are shared with
// the server so one environment can drive both in local setups.
func parseEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("STAFFDIR")
	v.AutomaticEnv()

	bind := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	bind("server_addr", &cfg.ServerEndpointAddr)
	if v.IsSet("request_timeout") {
		cfg.RequestTimeout = v.GetDuration("request_timeout")
	}
	bind("log_level", &cfg.LogLevel)
	bind("storage_backend", &cfg.Storage.Backend)
	bind("sqlite_path", &cfg.Storage.SQLitePath)
	bind("database_dsn", &cfg.Storage.DatabaseDSN)
	bind("redis_url", &cfg.Storage.RedisURL)
	bind("redis_prefix", &cfg.Storage.RedisKeyPrefix)
}
