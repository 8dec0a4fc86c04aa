package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// FixedWindowLimiter is an in-memory per-IP limiter: at most perMinute
// requests within each wall-clock minute window.
type FixedWindowLimiter struct {
	perMinute int
	mu        sync.Mutex
	windows   map[string]*window
}

type window struct {
	start time.Time
	count int
}

// NewFixedWindowLimiter creates a limiter allowing perMinute requests per IP.
func NewFixedWindowLimiter(perMinute int) *FixedWindowLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &FixedWindowLimiter{
		perMinute: perMinute,
		windows:   make(map[string]*window),
	}
}

// GinMiddleware returns a gin handler enforcing the limit.
func (l *FixedWindowLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(ip, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

func (l *FixedWindowLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.perMinute {
		return false
	}
	w.count++
	return true
}
