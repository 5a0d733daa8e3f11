package config

import (
	"github.com/spf13/viper"
)

const envPrefix = "STAFFDIR"

// parseEnv overlays STAFFDIR_* environment variables, e.g.
// STAFFDIR_GRPC_ADDR or STAFFDIR_STORAGE_BACKEND.
func parseEnv(config *Config) {
	parseEnvFrom(viper.New(), config)
}

func parseEnvFrom(v *viper.Viper, config *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	envString(v, "grpc_addr", &config.EndpointAddrGRPC)
	envString(v, "http_addr", &config.EndpointAddrHTTP)
	envString(v, "secret_key", &config.SecretKey)
	if v.IsSet("token_ttl") {
		config.AccessTokenValidityDuration = v.GetDuration("token_ttl")
	}
	if v.IsSet("login_rate") {
		config.LoginRatePerSecond = v.GetFloat64("login_rate")
	}
	if v.IsSet("login_burst") {
		config.LoginBurst = v.GetInt("login_burst")
	}
	envString(v, "log_level", &config.LogLevel)
	envString(v, "log_format", &config.LogFormat)

	st := &config.Storage
	envString(v, "storage_backend", &st.Backend)
	envString(v, "sqlite_path", &st.SQLitePath)
	envString(v, "database_dsn", &st.DatabaseDSN)
	envString(v, "redis_url", &st.RedisURL)
	envString(v, "redis_prefix", &st.RedisKeyPrefix)
	envString(v, "s3_bucket", &st.S3.Bucket)
	envString(v, "s3_region", &st.S3.Region)
	envString(v, "s3_endpoint", &st.S3.BaseEndpoint)
	envString(v, "s3_access_key", &st.S3.AccessKey)
	envString(v, "s3_secret_key", &st.S3.SecretKey)
	envString(v, "s3_prefix", &st.S3.Prefix)
}

func envString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}
