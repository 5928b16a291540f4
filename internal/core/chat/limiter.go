package chat

import (
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
	"golang.org/x/time/rate"
)

// walletLimiter keeps one token bucket per wallet. Idle buckets expire so the
// cache stays bounded by the set of recently active wallets.
type walletLimiter struct {
	mu      sync.Mutex
	buckets *otter.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

func newWalletLimiter(perMinute, burst int, idle time.Duration) *walletLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &walletLimiter{
		buckets: otter.Must(&otter.Options[string, *rate.Limiter]{
			MaximumSize:      100_000,
			ExpiryCalculator: otter.ExpiryAccessing[string, *rate.Limiter](idle),
		}),
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: burst,
	}
}

// Allow reports whether wallet may post now. A nil limiter allows everything.
func (l *walletLimiter) Allow(wallet string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	lim, ok := l.buckets.GetIfPresent(wallet)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Set(wallet, lim)
	}
	l.mu.Unlock()

	return lim.Allow()
}
