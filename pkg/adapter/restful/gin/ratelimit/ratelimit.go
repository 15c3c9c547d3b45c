// Package ratelimit throttles the credential related endpoints (login,
// registration, and password reset) per client address using token
// buckets from golang.org/x/time/rate.
package ratelimit

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Limiter keeps one token bucket per client ip.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*entry
	rate    rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// New creates a Limiter which allows perMinute requests per minute
// with the given burst for each client. Buckets which are not used
// for idle are forgotten.
func New(perMinute, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		clients: make(map[string]*entry),
		rate:    rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

func (l *Limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	e, ok := l.clients[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = e
	}
	e.seen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep forgets the buckets which were idle for a while. It returns
// the number of removed entries.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.idle)
	n := 0
	for k, e := range l.clients {
		if e.seen.Before(cutoff) {
			delete(l.clients, k)
			n++
		}
	}
	return n
}

// Middleware rejects the requests beyond the limit with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if l.allow(ip) {
			c.Next()
			return
		}
		log.Warn(
			c.Request.Context(), "rate limit exceeded",
			slog.String("ip", ip), slog.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "too many requests, please try again later",
		})
	}
}
