package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example , ,https://b.example "))
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"AUTO_PLACE_MAX_ROWS", "ASSEMBLED_CACHE_TTL_SECONDS", "MEDIA_BASE_URL", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 200, cfg.AutoPlaceMaxRows)
	assert.Equal(t, 5*time.Minute, cfg.AssembledCacheTTL)
	assert.Equal(t, "/uploads", cfg.MediaBaseURL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTO_PLACE_MAX_ROWS", "0")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example/media/")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 0, cfg.AutoPlaceMaxRows)
	assert.Equal(t, "https://cdn.example/media", cfg.MediaBaseURL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, int32(16), cfg.MaxDBConns)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "quiz:q1:assembled", CacheKey.AssembledQuizKey("q1"))
	assert.Equal(t, "v2|42", CacheKey.AssembledQuizField("v2", "42"))
	assert.Equal(t, "step:s1:layout", CacheKey.StepLayoutChannel("s1"))
	assert.Equal(t, "refresh:t", CacheKey.RefreshTokenKey("t"))
}
