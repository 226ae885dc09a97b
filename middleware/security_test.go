package middleware

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "O&#x27;Brien", SanitizeInput("O'Brien"))
	assert.Equal(t, "a &amp; b", SanitizeInput("  a & b  "))
	assert.Equal(t, "plain name", SanitizeInput("plain name"))
}

func TestValidatePasswordStrength(t *testing.T) {
	ok, _ := ValidatePasswordStrength("longenough")
	assert.True(t, ok)

	ok, details := ValidatePasswordStrength("short")
	assert.False(t, ok)
	assert.NotEmpty(t, details)

	ok, _ = ValidatePasswordStrength(strings.Repeat("x", 129))
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter()

	// Same key gets the same limiter back
	a := rl.GetLimiter("k", rate.Every(time.Minute), 2)
	b := rl.GetLimiter("k", rate.Every(time.Minute), 2)
	assert.Same(t, a, b)

	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow(), "burst of 2 should be spent")

	// A different key has its own budget
	assert.True(t, rl.GetLimiter("other", rate.Every(time.Minute), 2).Allow())
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.GetLimiter("stale", rate.Every(time.Minute), 1)
	rl.lastSeen["stale"] = time.Now().Add(-2 * time.Hour)
	rl.GetLimiter("fresh", rate.Every(time.Minute), 1)

	rl.Cleanup()

	assert.NotContains(t, rl.limiters, "stale")
	assert.Contains(t, rl.limiters, "fresh")
}
