package recognizer

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter applies a token bucket per client host. A nil limiter
// allows everything.
type hostLimiter struct {
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	byHost map[string]*rate.Limiter
}

func newHostLimiter(rps float64, burst int) *hostLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &hostLimiter{
		limit:  rate.Limit(rps),
		burst:  burst,
		byHost: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether one token can be consumed for the host at now.
func (l *hostLimiter) Allow(host string, now time.Time) bool {
	if l == nil || host == "" {
		return true
	}

	l.mu.Lock()
	lim, ok := l.byHost[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byHost[host] = lim
	}
	l.mu.Unlock()

	return lim.AllowN(now, 1)
}
