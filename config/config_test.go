package config_test

import (
	"testing"
	"time"

	"devfeed/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDashboardDefaults(t *testing.T) {
	cfg, err := config.LoadDashboard([]string{})

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8000/", cfg.Endpoint)
	assert.Equal(t, 8*time.Second, cfg.Rotation)
	assert.Equal(t, 10, cfg.MaxItems)
	assert.Equal(t, "devfeed-dashboard.log", cfg.LogFile)
}

func TestLoadDashboardOverrides(t *testing.T) {
	t.Setenv("DEVFEED_ENDPOINT", "https://feeds.example.com/")
	t.Setenv("DEVFEED_ROTATION", "3s")

	cfg, err := config.LoadDashboard([]string{"--max-items", "4", "--rotation", "500ms"})

	require.NoError(t, err)
	assert.Equal(t, "https://feeds.example.com/", cfg.Endpoint)
	// flags win over the environment
	assert.Equal(t, 500*time.Millisecond, cfg.Rotation)
	assert.Equal(t, 4, cfg.MaxItems)
}

func TestLoadDashboardValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "relative endpoint", args: []string{"--endpoint", "/feeds"}},
		{name: "non http endpoint", args: []string{"--endpoint", "ftp://example.com/"}},
		{name: "zero rotation", args: []string{"--rotation", "0s"}},
		{name: "negative items", args: []string{"--max-items", "-1"}},
		{name: "unknown flag", args: []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadDashboard(tt.args)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadHelpReturnsNil(t *testing.T) {
	cfg, err := config.LoadDashboard([]string{"--help"})
	assert.NoError(t, err)
	assert.Nil(t, cfg)

	srv, err := config.LoadServer([]string{"-h"})
	assert.NoError(t, err)
	assert.Nil(t, srv)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GITHUB_TOKEN", "secret")

	cfg, err := config.LoadServer([]string{"--cache-ttl", "2m", "--prewarm="})

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "secret", cfg.GitHubToken)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.Prewarm)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadServerValidation(t *testing.T) {
	_, err := config.LoadServer([]string{"--upstream-timeout", "0s"})
	assert.Error(t, err)

	_, err = config.LoadServer([]string{"--cache-ttl", "-1s"})
	assert.Error(t, err)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "dev", config.GetVersion())
}
