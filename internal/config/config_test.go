package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("ApiBaseUrl", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.FrontendURL)
	assert.Equal(t, 60, cfg.Server.WriteLimit)
}

func TestLoad_Environment(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"API_BASE_URL", "API_BASE_URL", "http://api.internal:8080/", "http://api.internal:8080"},
		{"legacy ApiBaseUrl", "ApiBaseUrl", "http://legacy.internal", "http://legacy.internal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			cfg, err := Load(nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg.API.BaseURL)
		})
	}
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	t.Setenv("API_TIMEOUT", "15s")
	t.Setenv("WRITE_LIMIT_PER_MINUTE", "5")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Server.WriteLimit)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-base-url", "", "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse([]string{"--api-base-url", "http://from-flag"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag", cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}
