// Package staffctl implements the operator command line for the staff
// directory: one-shot commands that act directly on the configured store.
package staffctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// OpenFunc opens the store a command works on.
type OpenFunc func(ctx context.Context, cfg kvstore.Config) (kvstore.Store, error)

type cli struct {
	v       *viper.Viper
	cfgFile string
	open    OpenFunc
}

// NewRootCmd builds the command tree. Storage settings come from flags,
// STAFFDIR_* variables or an optional config file, in that order of
// precedence.
func NewRootCmd(open OpenFunc) *cobra.Command {
	if open == nil {
		open = kvstore.Open
	}
	c := &cli{v: viper.New(), open: open}

	root := &cobra.Command{
		Use:           "staffctl",
		Short:         "Operate the restaurant staff directory",
		Long:          `staffctl reads and changes the staff directory directly in its store, for scripting and recovery.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("backend", kvstore.BackendSQLite, "storage backend: memory, sqlite, postgres, redis, s3")
	pf.String("sqlite-path", "staffdir.db", "SQLite database file")
	pf.String("database-dsn", "", "PostgreSQL DSN")
	pf.String("redis-url", "redis://localhost:6379/0", "Redis URL")
	pf.String("redis-prefix", "staffdir:", "Redis key prefix")
	pf.String("s3-bucket", "staffdir", "S3 bucket")
	pf.String("s3-region", "us-east-1", "S3 region")
	pf.String("s3-endpoint", "", "S3 base endpoint (MinIO etc.)")
	pf.String("s3-access-key", "", "S3 access key")
	pf.String("s3-secret-key", "", "S3 secret key")
	pf.String("s3-prefix", "", "S3 object key prefix")
	pf.String("log-level", "warn", "log level")

	for _, name := range []string{
		"backend", "sqlite-path", "database-dsn", "redis-url", "redis-prefix",
		"s3-bucket", "s3-region", "s3-endpoint", "s3-access-key", "s3-secret-key", "s3-prefix",
		"log-level",
	} {
		_ = c.v.BindPFlag(viperKey(name), pf.Lookup(name))
	}
	// "backend" shares its variable name with the server config.
	_ = c.v.BindEnv(viperKey("backend"), "STAFFDIR_STORAGE_BACKEND")

	root.AddCommand(
		c.usersCmd(),
		c.bootstrapCmd(),
		c.clearCmd(),
	)

	return root
}

func viperKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func (c *cli) initConfig() error {
	c.v.SetEnvPrefix("STAFFDIR")
	c.v.AutomaticEnv()

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (c *cli) storageConfig() kvstore.Config {
	return kvstore.Config{
		Backend:        c.v.GetString("backend"),
		SQLitePath:     c.v.GetString("sqlite_path"),
		DatabaseDSN:    c.v.GetString("database_dsn"),
		RedisURL:       c.v.GetString("redis_url"),
		RedisKeyPrefix: c.v.GetString("redis_prefix"),
		S3: kvstore.S3Config{
			Bucket:       c.v.GetString("s3_bucket"),
			Region:       c.v.GetString("s3_region"),
			BaseEndpoint: c.v.GetString("s3_endpoint"),
			AccessKey:    c.v.GetString("s3_access_key"),
			SecretKey:    c.v.GetString("s3_secret_key"),
			Prefix:       c.v.GetString("s3_prefix"),
		},
	}
}

// withService opens the store, runs fn against a directory service and
// closes the store.
func (c *cli) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *users.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := c.open(ctx, c.storageConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	logger := logging.New(cmd.ErrOrStderr(), "text", c.v.GetString("log_level"))
	return fn(ctx, users.NewService(store, logger))
}
