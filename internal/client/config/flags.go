package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the directory server (empty: local mode)
//	-t int      request timeout in seconds
//	-l string   log level
//	-b string   local storage backend
//	-f string   local SQLite file
//	-d string   local PostgreSQL DSN
//	-r string   local Redis URL
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-l", "-b", "-f", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Storage.Backend, "b", cfg.Storage.Backend, "local storage backend")
	fs.StringVar(&cfg.Storage.SQLitePath, "f", cfg.Storage.SQLitePath, "local SQLite file")
	fs.StringVar(&cfg.Storage.DatabaseDSN, "d", cfg.Storage.DatabaseDSN, "local PostgreSQL DSN")
	fs.StringVar(&cfg.Storage.RedisURL, "r", cfg.Storage.RedisURL, "local Redis URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
