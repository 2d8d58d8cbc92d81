package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Fields that
// are absent from the file leave the current value alone.
type JsonConfig struct {
	ServerURL            string         `json:"server_url"`
	HealthEndpointAddr   string         `json:"health_endpoint_addr"`
	DatabasePath         string         `json:"database_path"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
	InactivityTimeout    timex.Duration `json:"inactivity_timeout"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	LogLevel             string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the file given with -c
// or -config. Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthEndpointAddr != "" {
		cfg.HealthEndpointAddr = jc.HealthEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SessionCheckInterval.Duration > 0 {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
	if jc.InactivityTimeout.Duration > 0 {
		cfg.InactivityTimeout = jc.InactivityTimeout.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
