package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("FRIENDSHIP_DIRECTORY_URL", "http://friendships.internal:8080")
	t.Setenv("ACCOUNT_DIRECTORY_URL", "http://accounts.internal:8080/api")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Port)
	assert.Equal(t, "friendships.internal:8080", cfg.FriendshipDirectoryURL.Host)
	assert.Equal(t, "/api", cfg.AccountDirectoryURL.Path)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 8, cfg.FanoutLimit)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	t.Setenv("UPSTREAM_TIMEOUT", "750ms")
	t.Setenv("FANOUT_LIMIT", "3")
	t.Setenv("ALLOWED_ORIGINS", "https://dusksky.gg, https://admin.dusksky.gg")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.FanoutLimit)
	assert.Equal(t, []string{"https://dusksky.gg", "https://admin.dusksky.gg"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_MissingDirectoryURL(t *testing.T) {
	setRequired(t)
	t.Setenv("FRIENDSHIP_DIRECTORY_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRIENDSHIP_DIRECTORY_URL")
}

func TestLoad_RejectsBadScheme(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCOUNT_DIRECTORY_URL", "ftp://accounts.internal")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestLoad_RequiresTokenSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CLERK_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsZeroFanout(t *testing.T) {
	setRequired(t)
	t.Setenv("FANOUT_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
}
