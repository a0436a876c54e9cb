package webserver

import (
	"fmt"
	"net"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// DefaultTrackedIPs bounds the number of remote addresses with a limiter.
const DefaultTrackedIPs = 10000

// ipLimiter throttles accepted connections per remote IP. The table of
// limiters is an LRU so a scan from many addresses cannot grow it without
// bound; an evicted address simply starts with a full bucket again.
type ipLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache
	limit    rate.Limit
	burst    int
}

func newIPLimiter(perIP float64, burst, tracked int) (*ipLimiter, error) {
	if tracked <= 0 {
		tracked = DefaultTrackedIPs
	}
	if burst <= 0 {
		burst = max(1, int(perIP))
	}
	cache, err := lru.New(tracked)
	if err != nil {
		return nil, fmt.Errorf("webserver: create limiter table: %w", err)
	}
	return &ipLimiter{
		limiters: cache,
		limit:    rate.Limit(perIP),
		burst:    burst,
	}, nil
}

// Allow reports whether a new connection from ip may proceed.
func (l *ipLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(ip); ok {
		return v.(*rate.Limiter).Allow()
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(ip, lim)
	return lim.Allow()
}

// Len returns the number of tracked addresses.
func (l *ipLimiter) Len() int {
	return l.limiters.Len()
}

func remoteIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
