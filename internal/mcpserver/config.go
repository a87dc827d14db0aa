package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasdecode/engine"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// MaxInlineSize caps inline schema content in bytes.
	MaxInlineSize int64

	// Generate tool defaults.
	GenerateFormats    bool
	GenerateFormatMode engine.FormatMode
	GeneratePackage    string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASDECODE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASDECODE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASDECODE_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASDECODE_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("OASDECODE_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASDECODE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      int64(envInt("OASDECODE_MAX_INLINE_SIZE", 10*1024*1024)),
		GenerateFormats:    envBool("OASDECODE_GENERATE_FORMATS", false),
		GenerateFormatMode: envFormatMode("OASDECODE_GENERATE_FORMAT_MODE"),
		GeneratePackage:    envString("OASDECODE_GENERATE_PACKAGE", "models"),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFormatMode(key string) engine.FormatMode {
	v := engine.FormatMode(os.Getenv(key))
	switch v {
	case "":
		return engine.FormatFast
	case engine.FormatFast, engine.FormatFull:
		return v
	}
	slog.Warn("invalid format mode env var, using default", "key", key, "value", string(v), "default", string(engine.FormatFast))
	return engine.FormatFast
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
