package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the portfolio CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API.
//   - HealthEndpointAddr: host:port of the gRPC health endpoint.
//   - DatabasePath: SQLite file holding the persisted session.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SessionCheckInterval: how often idle expiry is evaluated.
//   - InactivityTimeout: idle time after which the session is dropped.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL            string
	HealthEndpointAddr   string
	DatabasePath         string
	OnlineCheckInterval  time.Duration
	SessionCheckInterval time.Duration
	InactivityTimeout    time.Duration
	RequestTimeout       time.Duration
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "portfolio-cli.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionCheckInterval = time.Minute
	c.InactivityTimeout = 24 * time.Hour
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
