package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "game-settlements", cfg.Kafka.Topic)
	assert.Equal(t, "https://site.api.espn.com/apis/site/v2/sports", cfg.Providers.ESPN.BaseURL)
	assert.Equal(t, 20, cfg.Ledger.DefaultLimit)
	assert.Equal(t, 100, cfg.Ledger.MaxLimit)
	assert.Equal(t, 5, cfg.Ledger.MinSettled)
	assert.Equal(t, 50, cfg.Ledger.PredictionWinCoins)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "super-secret")
	t.Setenv("TEST_SPORTSDATA_KEY", "sd-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
auth:
  jwt_secret: ${TEST_JWT_SECRET}
providers:
  sportsdata:
    api_key: ${TEST_SPORTSDATA_KEY}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "super-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sd-key", cfg.Providers.SportsData.APIKey)

	// unset fields still pick up defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Ledger.ScheduleLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
