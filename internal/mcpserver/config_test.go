package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oasdecode/engine"
)

// clearOASDECODEEnv clears all OASDECODE_* env vars to isolate tests from the ambient environment.
func clearOASDECODEEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASDECODE_CACHE_ENABLED", "OASDECODE_CACHE_MAX_SIZE",
		"OASDECODE_CACHE_FILE_TTL", "OASDECODE_CACHE_CONTENT_TTL",
		"OASDECODE_CACHE_SWEEP_INTERVAL", "OASDECODE_MAX_INLINE_SIZE",
		"OASDECODE_GENERATE_FORMATS", "OASDECODE_GENERATE_FORMAT_MODE",
		"OASDECODE_GENERATE_PACKAGE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearOASDECODEEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.GenerateFormats)
	assert.Equal(t, engine.FormatFast, c.GenerateFormatMode)
	assert.Equal(t, "models", c.GeneratePackage)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearOASDECODEEnv(t)
	t.Setenv("OASDECODE_CACHE_ENABLED", "false")
	t.Setenv("OASDECODE_CACHE_MAX_SIZE", "50")
	t.Setenv("OASDECODE_CACHE_FILE_TTL", "30m")
	t.Setenv("OASDECODE_CACHE_CONTENT_TTL", "10m")
	t.Setenv("OASDECODE_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("OASDECODE_MAX_INLINE_SIZE", "2048")
	t.Setenv("OASDECODE_GENERATE_FORMATS", "true")
	t.Setenv("OASDECODE_GENERATE_FORMAT_MODE", "full")
	t.Setenv("OASDECODE_GENERATE_PACKAGE", "api")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(2048), c.MaxInlineSize)
	assert.True(t, c.GenerateFormats)
	assert.Equal(t, engine.FormatFull, c.GenerateFormatMode)
	assert.Equal(t, "api", c.GeneratePackage)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	clearOASDECODEEnv(t)
	t.Setenv("OASDECODE_CACHE_ENABLED", "maybe")
	t.Setenv("OASDECODE_CACHE_MAX_SIZE", "-3")
	t.Setenv("OASDECODE_CACHE_FILE_TTL", "soon")
	t.Setenv("OASDECODE_GENERATE_FORMAT_MODE", "thorough")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, engine.FormatFast, c.GenerateFormatMode)
}
