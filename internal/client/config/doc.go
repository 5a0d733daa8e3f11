// Package config loads runtime configuration for the staff console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. STAFFDIR_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the directory server; empty means local mode
//	-t int      request timeout (seconds)
//	-l string   log level
//	-b, -f, -d, -r  local storage backend, SQLite file, PostgreSQL DSN, Redis URL
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "storage_backend": "sqlite",
//	  "sqlite_path": "data/staffdir.db"
//	}
package config
