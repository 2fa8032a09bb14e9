package linkcheck

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces requests per host with a token bucket of burst 1, so
// checks against different hosts proceed in parallel.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter returns a limiter allowing rps requests per second to each
// host. A non-positive rps disables pacing.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if h == nil || h.rps <= 0 {
		return ctx.Err()
	}
	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(h.rps), 1)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
