package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowEnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other IPs are unaffected.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_CleanupDropsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	rl.cleanup(time.Now().Add(2 * time.Minute))

	rl.mu.Lock()
	remaining := len(rl.requests)
	rl.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestRateLimiter_CleanupKeepsActiveIPs(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))

	rl.cleanup(time.Now())

	rl.mu.Lock()
	_, kept := rl.requests["10.0.0.1"]
	rl.mu.Unlock()
	assert.True(t, kept)
}
