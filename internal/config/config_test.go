package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelgate/admin-api/internal/mapping"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, mapping.DefaultMatcherCacheSize, cfg.Mapping.MatcherCacheSize)
	assert.Equal(t, 60, cfg.Mapping.PreviewCacheTTLSeconds)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("MAPPING_MATCHER_CACHE_SIZE", "250")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 250, cfg.Mapping.MatcherCacheSize)
}
