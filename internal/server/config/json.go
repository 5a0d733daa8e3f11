package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
	"github.com/dmitrijs2005/staffdir/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations
// accept "30m" style strings or integer nanoseconds. Missing keys keep the
// value configured before the file was read.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LoginRatePerSecond          float64        `json:"login_rate_per_second"`
	LoginBurst                  int            `json:"login_burst"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
	StorageBackend              string         `json:"storage_backend"`
	SQLitePath                  string         `json:"sqlite_path"`
	DatabaseDSN                 string         `json:"database_dsn"`
	RedisURL                    string         `json:"redis_url"`
	RedisKeyPrefix              string         `json:"redis_key_prefix"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3Prefix                    string         `json:"s3_prefix"`
}

// parseJson overlays the file given with -c/-config, if any. An unreadable
// or malformed file panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.LoginRatePerSecond != 0 {
		config.LoginRatePerSecond = c.LoginRatePerSecond
	}
	if c.LoginBurst != 0 {
		config.LoginBurst = c.LoginBurst
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	st := &config.Storage
	setString(&st.Backend, c.StorageBackend)
	setString(&st.SQLitePath, c.SQLitePath)
	setString(&st.DatabaseDSN, c.DatabaseDSN)
	setString(&st.RedisURL, c.RedisURL)
	setString(&st.RedisKeyPrefix, c.RedisKeyPrefix)
	setString(&st.S3.Bucket, c.S3Bucket)
	setString(&st.S3.Region, c.S3Region)
	setString(&st.S3.BaseEndpoint, c.S3BaseEndpoint)
	setString(&st.S3.AccessKey, c.S3AccessKey)
	setString(&st.S3.SecretKey, c.S3SecretKey)
	setString(&st.S3.Prefix, c.S3Prefix)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
