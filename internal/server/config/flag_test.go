package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{
			"-a", "127.0.0.1:9090", "-g", ":6000", "-m", "postgres", "-d", "db", "-s", "secret",
			"-t", "24", "-f", "seed.yaml", "-l", "debug",
		}, expected: &Config{
			EndpointAddrHTTP:      "127.0.0.1:9090",
			EndpointAddrGRPC:      ":6000",
			StoreMode:             "postgres",
			DatabaseDSN:           "db",
			SecretKey:             "secret",
			TokenValidityDuration: 24 * time.Hour,
			SeedFile:              "seed.yaml",
			LogLevel:              "debug",
		}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-x", "1", "-s", "k"},
			expected: &Config{SecretKey: "k"}},
		{name: "bad int", args: []string{"-t", "week"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDurationWhenTokenFlagAbsent(t *testing.T) {
	config := &Config{TokenValidityDuration: 90 * time.Minute}
	require.NoError(t, parseFlags(config, []string{"-s", "k"}))
	assert.Equal(t, 90*time.Minute, config.TokenValidityDuration)
}
