package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates per-user write actions.
type Limiter interface {
	Allow(userID int) bool
}

// InMemoryLimiter keeps one token bucket per user.
type InMemoryLimiter struct {
	users map[int]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

// NewInMemoryLimiter allows `requests` actions per `per` with a burst of
// `burst`. Example: NewInMemoryLimiter(1, time.Second, 5) lets a user fire
// five actions back to back, then one per second.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	return &InMemoryLimiter{
		users: make(map[int]*rate.Limiter),
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) Allow(userID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.users[userID]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.users[userID] = limiter
	}

	return limiter.Allow()
}
