package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The triage, negotiation, and call endpoints sit in front of metered
// completion and telephony providers, so their requests are budgeted per
// client IP with a token bucket. The rest of the API is unthrottled.

type quota struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	perSec   float64
	burst    float64
}

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

func newQuota(perSec float64, burst int) *quota {
	q := &quota{
		visitors: make(map[string]*visitor),
		perSec:   perSec,
		burst:    float64(burst),
	}
	go q.evictIdle()
	return q
}

// take spends one token for ip, first refilling the bucket for the time
// elapsed since the previous request.
func (q *quota) take(ip string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	v, ok := q.visitors[ip]
	if !ok {
		v = &visitor{tokens: q.burst, lastSeen: now}
		q.visitors[ip] = v
	}

	v.tokens += now.Sub(v.lastSeen).Seconds() * q.perSec
	if v.tokens > q.burst {
		v.tokens = q.burst
	}
	v.lastSeen = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// evictIdle drops buckets for clients that have gone quiet so the visitor
// map does not grow without bound.
func (q *quota) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		q.mu.Lock()
		for ip, v := range q.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(q.visitors, ip)
			}
		}
		q.mu.Unlock()
	}
}

// RateLimit budgets requests per client IP, answering 429 with a Retry-After
// hint once a bucket runs dry.
func RateLimit(perSec float64, burst int) func(http.Handler) http.Handler {
	q := newQuota(perSec, burst)
	retryAfter := "1"
	if perSec > 0 && perSec < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / perSec)))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !q.take(ip) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
