package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepInterval = time.Minute

// userLimiter holds one token bucket per user. Buckets that have refilled are
// dropped on the next sweep; a full bucket behaves like a fresh one.
type userLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func newUserLimiter(perMinute, burst int) *userLimiter {
	if burst < 1 {
		burst = 1
	}
	return &userLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    burst,
		now:      time.Now,
	}
}

func (u *userLimiter) Allow(uid string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	if now.Sub(u.lastSweep) >= sweepInterval {
		u.sweep(now)
		u.lastSweep = now
	}

	l, ok := u.limiters[uid]
	if !ok {
		l = rate.NewLimiter(u.limit, u.burst)
		u.limiters[uid] = l
	}
	return l.AllowN(now, 1)
}

func (u *userLimiter) sweep(now time.Time) {
	for uid, l := range u.limiters {
		if l.TokensAt(now) >= float64(u.burst) {
			delete(u.limiters, uid)
		}
	}
}
