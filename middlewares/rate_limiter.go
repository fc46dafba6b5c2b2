package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-IP request counter. It guards the
// anonymous auth endpoints against credential stuffing and guest-token
// farming; authenticated traffic is governed by the quota tracker instead.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string]int
	limit  int
	window time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		hits:   make(map[string]int),
		limit:  limit,
		window: window,
	}
	go r.reset()
	return r
}

func (r *RateLimiter) reset() {
	for {
		time.Sleep(r.window)
		r.mu.Lock()
		r.hits = make(map[string]int)
		r.mu.Unlock()
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.mu.Lock()
		ip := c.ClientIP()
		r.hits[ip]++
		over := r.hits[ip] > r.limit
		r.mu.Unlock()

		if over {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
