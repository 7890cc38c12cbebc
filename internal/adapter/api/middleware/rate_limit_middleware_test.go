package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		blocked, _ := rl.take("10.0.0.1")
		assert.False(t, blocked, "request %d should pass", i+1)
	}

	blocked, resetAt := rl.take("10.0.0.1")
	assert.True(t, blocked)
	assert.True(t, resetAt.After(time.Now()))
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	blocked, _ := rl.take("10.0.0.1")
	assert.False(t, blocked)
	blocked, _ = rl.take("10.0.0.2")
	assert.False(t, blocked)

	blocked, _ = rl.take("10.0.0.1")
	assert.True(t, blocked)
}
