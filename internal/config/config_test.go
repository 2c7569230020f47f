package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unispace/unispace/internal/config"
)

func TestGetServerConfigDefaults(t *testing.T) {
	cfg := config.GetServerConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./internal/web/templates", cfg.TemplatesDir)
}

func TestGetServerConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := config.GetServerConfig()
	assert.Equal(t, "9090", cfg.Port)
}

func TestGetRedisConfigDefaults(t *testing.T) {
	cfg := config.GetRedisConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "6379", cfg.Port)
	assert.Equal(t, "unispace:", cfg.KeyPrefix)
}

func TestGetRedisConfigEnabled(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_URI_UNISPACE", "redis://example:6380")

	cfg := config.GetRedisConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "redis://example:6380", cfg.URI)
}

func TestAIConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := config.GetAIConfig()
	assert.False(t, cfg.IsAIConfigValid())
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	cfg = config.GetAIConfig()
	assert.True(t, cfg.IsAIConfigValid())
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
}
