package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", c.ServerURL)
	assert.Equal(t, "127.0.0.1:50051", c.HealthEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, time.Minute, c.SessionCheckInterval)
	assert.Equal(t, 24*time.Hour, c.InactivityTimeout)
}

func TestLoad_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}
