package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func (u *userLimiter) size() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.limiters)
}

func TestUserLimiter_PerUserBuckets(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l := newUserLimiter(60, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
}

func TestUserLimiter_SweepsIdleUsers(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l := newUserLimiter(10, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("user-%d", i))
	}
	assert.Equal(t, 100, l.size())

	// every bucket has refilled by now; only the caller's entry remains
	now = now.Add(2 * sweepInterval)
	assert.True(t, l.Allow("active"))
	assert.Equal(t, 1, l.size())
}

func TestUserLimiter_SweepKeepsDrainedBuckets(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l := newUserLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))

	// one token back after a minute; the bucket is not full so the user stays limited
	now = now.Add(sweepInterval)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}
