// Package config loads runtime configuration for the portfolio CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the HTTP API
//	-g string   address:port of the gRPC health endpoint
//	-d string   path of the local SQLite session database
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "health_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "portfolio-cli.db",
//	  "online_check_interval": "3s",
//	  "session_check_interval": "1m",
//	  "inactivity_timeout": "24h",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
//
// This package does not read environment variables.
package config
