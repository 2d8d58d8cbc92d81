package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish "not
// set" from zero values so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	StoreMode             *string         `json:"store_mode"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PasswordHashCost      *int            `json:"password_hash_cost"`
	SeedFile              *string         `json:"seed_file"`
	LogLevel              *string         `json:"log_level"`
	TracingEnabled        *bool           `json:"tracing_enabled"`
	TracingEndpoint       *string         `json:"tracing_endpoint"`
	TracingSampleRate     *float64        `json:"tracing_sample_rate"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
	ReadinessDrainDelay   *timex.Duration `json:"readiness_drain_delay"`
	RateLimitMax          *int            `json:"rate_limit_max"`
	RateLimitWindow       *timex.Duration `json:"rate_limit_window"`
}

// parseJson overlays the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StoreMode, c.StoreMode)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SeedFile, c.SeedFile)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.TracingEndpoint, c.TracingEndpoint)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.TracingEnabled != nil {
		config.TracingEnabled = *c.TracingEnabled
	}
	if c.TracingSampleRate != nil {
		config.TracingSampleRate = *c.TracingSampleRate
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.ReadinessDrainDelay != nil {
		config.ReadinessDrainDelay = c.ReadinessDrainDelay.Duration
	}
	if c.RateLimitMax != nil {
		config.RateLimitMax = *c.RateLimitMax
	}
	if c.RateLimitWindow != nil {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
