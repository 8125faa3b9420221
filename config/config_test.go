package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRADEWIND_API_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 2, cfg.RateLimit)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingAPIURL(t *testing.T) {
	t.Setenv("TRADEWIND_API_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRADEWIND_API_URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRADEWIND_API_URL", "https://api.example.com")
	t.Setenv("TRADEWIND_SUBMIT_URL", "https://submit.example.com")
	t.Setenv("TRADEWIND_RPC_URL", "https://rpc.example.com")
	t.Setenv("TRADEWIND_RATE_LIMIT", "5")
	t.Setenv("TRADEWIND_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://submit.example.com", cfg.SubmitURL)
	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("TRADEWIND_API_URL", "https://api.example.com")

	t.Setenv("TRADEWIND_RATE_LIMIT", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TRADEWIND_RATE_LIMIT", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")
}
