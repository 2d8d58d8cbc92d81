package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":      "www.example:9000",
		"endpoint_addr_grpc":      ":7000",
		"store_mode":              "postgres",
		"database_dsn":            "postgres://db",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "48h",
		"password_hash_cost":      10,
		"seed_file":               "seed.yaml",
		"log_level":               "debug",
		"tracing_enabled":         true,
		"tracing_endpoint":        "otel:4318",
		"tracing_sample_rate":     0.5,
		"shutdown_timeout":        "5s",
		"readiness_drain_delay":   "1s",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres", cfg.StoreMode)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, 10, cfg.PasswordHashCost)
		assert.Equal(t, "seed.yaml", cfg.SeedFile)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.TracingEnabled)
		assert.Equal(t, "otel:4318", cfg.TracingEndpoint)
		assert.InDelta(t, 0.5, cfg.TracingSampleRate, 1e-9)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, time.Second, cfg.ReadinessDrainDelay)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "error"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, ":3000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 7*24*time.Hour, cfg.TokenValidityDuration)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJson(cfg, []string{"-s", "x"}))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-config", bad})
		assert.ErrorContains(t, err, "parse config file")
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-config", filepath.Join(dir, "nope.json")})
		assert.ErrorContains(t, err, "read config file")
	})
}
