package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded into the process environment when present. Variables
// already set in the environment win over the file.
var envFile = ".env"

// parseEnv reads PORTFOLIO_* variables.
//
//	PORTFOLIO_HTTP_ADDR, PORTFOLIO_GRPC_ADDR, PORTFOLIO_STORE,
//	PORTFOLIO_DATABASE_DSN, PORTFOLIO_SECRET_KEY, PORTFOLIO_TOKEN_TTL,
//	PORTFOLIO_HASH_COST, PORTFOLIO_SEED_FILE, PORTFOLIO_LOG_LEVEL,
//	PORTFOLIO_TRACING_ENABLED, PORTFOLIO_TRACING_ENDPOINT,
//	PORTFOLIO_TRACING_SAMPLE_RATE, PORTFOLIO_SHUTDOWN_TIMEOUT,
//	PORTFOLIO_READINESS_DRAIN_DELAY, PORTFOLIO_RATE_LIMIT_MAX,
//	PORTFOLIO_RATE_LIMIT_WINDOW
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORTFOLIO_HTTP_ADDR", &config.EndpointAddrHTTP)
	str("PORTFOLIO_GRPC_ADDR", &config.EndpointAddrGRPC)
	str("PORTFOLIO_STORE", &config.StoreMode)
	str("PORTFOLIO_DATABASE_DSN", &config.DatabaseDSN)
	str("PORTFOLIO_SECRET_KEY", &config.SecretKey)
	str("PORTFOLIO_SEED_FILE", &config.SeedFile)
	str("PORTFOLIO_LOG_LEVEL", &config.LogLevel)
	str("PORTFOLIO_TRACING_ENDPOINT", &config.TracingEndpoint)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"PORTFOLIO_TOKEN_TTL", &config.TokenValidityDuration},
		{"PORTFOLIO_SHUTDOWN_TIMEOUT", &config.ShutdownTimeout},
		{"PORTFOLIO_READINESS_DRAIN_DELAY", &config.ReadinessDrainDelay},
		{"PORTFOLIO_RATE_LIMIT_WINDOW", &config.RateLimitWindow},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORTFOLIO_HASH_COST", &config.PasswordHashCost},
		{"PORTFOLIO_RATE_LIMIT_MAX", &config.RateLimitMax},
	}
	for _, i := range ints {
		v, ok := lookup(i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = n
	}
	if v, ok := lookup("PORTFOLIO_TRACING_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PORTFOLIO_TRACING_ENABLED: %w", err)
		}
		config.TracingEnabled = b
	}
	if v, ok := lookup("PORTFOLIO_TRACING_SAMPLE_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PORTFOLIO_TRACING_SAMPLE_RATE: %w", err)
		}
		config.TracingSampleRate = f
	}
	return nil
}
