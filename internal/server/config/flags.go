package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string   gRPC bind address
//	-m string   HTTP bind address (health, metrics)
//	-s string   session token secret
//	-t int      session token validity, minutes
//	-q float    login attempts per second, per login
//	-w int      login burst
//	-l string   log level
//	-b string   storage backend (memory, sqlite, postgres, redis, s3)
//	-f string   SQLite file
//	-d string   PostgreSQL DSN
//	-r string   Redis URL
//	-k string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   S3 access key
//	-p string   S3 secret key
//
// Flags outside this list are ignored. Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-s", "-t", "-q", "-w", "-l",
		"-b", "-f", "-d", "-r", "-k", "-g", "-e", "-u", "-p",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "HTTP address for health and metrics")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")
	tokenMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	fs.Float64Var(&config.LoginRatePerSecond, "q", config.LoginRatePerSecond, "login attempts per second")
	fs.IntVar(&config.LoginBurst, "w", config.LoginBurst, "login burst")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	st := &config.Storage
	fs.StringVar(&st.Backend, "b", st.Backend, "storage backend")
	fs.StringVar(&st.SQLitePath, "f", st.SQLitePath, "SQLite file")
	fs.StringVar(&st.DatabaseDSN, "d", st.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&st.RedisURL, "r", st.RedisURL, "Redis URL")
	fs.StringVar(&st.S3.Bucket, "k", st.S3.Bucket, "S3 bucket")
	fs.StringVar(&st.S3.Region, "g", st.S3.Region, "S3 region")
	fs.StringVar(&st.S3.BaseEndpoint, "e", st.S3.BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&st.S3.AccessKey, "u", st.S3.AccessKey, "S3 access key")
	fs.StringVar(&st.S3.SecretKey, "p", st.S3.SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*tokenMinutes) * time.Minute
}
