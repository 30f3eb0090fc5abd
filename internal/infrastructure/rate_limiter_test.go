package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("john@example.com"), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow("john@example.com"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 1)

	assert.True(t, rl.Allow("a@example.com"))
	assert.False(t, rl.Allow("a@example.com"))
	assert.True(t, rl.Allow("b@example.com"))
}
