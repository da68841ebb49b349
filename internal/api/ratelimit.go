package api

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*limiterEntry
	r         rate.Limit
	b         int
	lastPrune time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter allowing rps requests per second with
// the given burst per IP.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst <= 0 {
		burst = int(math.Ceil(rps))
	}
	return &IPRateLimiter{
		ips: make(map[string]*limiterEntry),
		r:   rate.Limit(rps),
		b:   burst,
		now: time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	now := i.now()
	i.pruneLocked(now)
	entry, ok := i.ips[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastSeen = now
	limiter := entry.limiter
	i.mu.Unlock()
	return limiter.AllowN(now, 1)
}

// pruneLocked drops buckets idle for longer than limiterIdleTTL. Caller holds i.mu.
func (i *IPRateLimiter) pruneLocked(now time.Time) {
	if now.Sub(i.lastPrune) < limiterIdleTTL {
		return
	}
	for ip, entry := range i.ips {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(i.ips, ip)
		}
	}
	i.lastPrune = now
}

// RateLimitMiddleware rejects clients that exceed their bucket with 429.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logrus.WithField("ip", ip).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": 1,
			})
			return
		}
		c.Next()
	}
}
