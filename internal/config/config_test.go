package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Game.IdleTTL)
	assert.Equal(t, 10*time.Minute, cfg.Game.ReapInterval)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 60.0, cfg.RateLimit.GuessesPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.AI.Enabled())
	assert.Nil(t, cfg.AI.Temperature)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("GAME_IDLE_TTL", "30m")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao")
	t.Setenv("ARK_TEMPERATURE", "0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Game.IdleTTL)
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.2, *cfg.AI.Temperature, 1e-9)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	t.Setenv("PORT", "80 80")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("GUESS_RATE_PER_MINUTE", "0")
	_, err = Load()
	require.Error(t, err)
}

func TestNormalizeAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9090": ":9090", ":7070": ":7070"} {
		got, err := normalizeAddr(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
