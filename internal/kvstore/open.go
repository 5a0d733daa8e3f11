package kvstore

import (
	"context"
	"fmt"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// Config selects and configures a Store backend.
type Config struct {
	Backend        string
	SQLitePath     string
	DatabaseDSN    string
	RedisURL       string
	RedisKeyPrefix string
	S3             S3Config
}

// Open returns the Store selected by cfg.Backend. Backends that need a
// schema are migrated before Open returns.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite, "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
	case BackendS3:
		return OpenS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
