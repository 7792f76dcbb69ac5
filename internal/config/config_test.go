package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("AUTH_BCRYPT_COST", "")
	t.Setenv("PROFILE_CACHE_TTL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 72*time.Hour, cfg.Auth.InviteTTL())
	assert.Equal(t, 30*time.Second, cfg.Cache.ProfileTTL())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_INVITE_TTL_HOURS", "24")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.InviteTTL())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateProductionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "s3cr3t-value")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestValidateBcryptCost(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{BcryptCost: 0, JWTSecret: "x"}}
	assert.Error(t, cfg.Validate())
}
