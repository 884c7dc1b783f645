package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// limiter hands out one token bucket per client key.
type limiter struct {
	mu    sync.Mutex
	rps   int
	burst int
	byKey map[string]*bucket
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiter(rps, burst int) *limiter {
	return &limiter{rps: rps, burst: burst, byKey: make(map[string]*bucket)}
}

func (l *limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.byKey[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst)}
		l.byKey[key] = b
	}
	b.lastSeen = time.Now()
	return b.lim
}

// evict forgets clients not seen since cutoff and reports how many went.
// A forgotten client starts again with a full bucket.
func (l *limiter) evict(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, b := range l.byKey {
		if b.lastSeen.Before(cutoff) {
			delete(l.byKey, key)
			n++
		}
	}
	return n
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// rateLimit rejects game commands beyond the per-IP budget with 429.
// A non-positive rps disables limiting.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limits.rps <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !s.limits.get(key).Allow() {
			log.Warn().Str("client", key).Str("path", r.URL.Path).Msg("rate limited")
			http.Error(w, `{"error":"rate_limited"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey strips the port from RemoteAddr, which RealIP has already rewritten.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
