package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"fever-tracker/internal/metrics"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*ratelimit.Bucket
	rate    float64
	burst   int64
}

func NewRateLimiter(ratePerSec float64, burst int64) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*ratelimit.Bucket),
		rate:    ratePerSec,
		burst:   burst,
	}
	rl.startCleanup()
	return rl
}

func (rl *RateLimiter) bucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	b, ok := rl.clients[clientIP]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.clients[clientIP]; !ok {
		b = ratelimit.NewBucketWithRate(rl.rate, rl.burst)
		rl.clients[clientIP] = b
	}
	return b
}

// startCleanup drops buckets that refilled completely, i.e. clients idle long
// enough to be forgotten.
func (rl *RateLimiter) startCleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			for ip, b := range rl.clients {
				if b.Available() == b.Capacity() {
					delete(rl.clients, ip)
				}
			}
			metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
			rl.mu.Unlock()
		}
	}()
}

// tokenCost weighs endpoints by how much work they trigger. Zero-cost paths
// are never throttled.
func tokenCost(r *http.Request) int64 {
	switch r.URL.Path {
	case "/health", "/metrics":
		return 0
	case "/export", "/import":
		return 20
	}
	if r.Method == http.MethodPost && r.URL.Path == "/assistant/ask" {
		return 10
	}
	return 1
}

// Handler enforces the per-client budget and sets Retry-After on rejection.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cost := tokenCost(r)
		if cost == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		b := rl.bucket(ip)
		if b.TakeAvailable(cost) < cost {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
