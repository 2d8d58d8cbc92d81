package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter caps requests per client IP with a token bucket that holds
// max requests and refills max tokens per window.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	window     time.Duration
	retryAfter string
	now        func() time.Time

	mu        sync.Mutex
	clients   map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:      rate.Every(window / time.Duration(max)),
		burst:      max,
		window:     window,
		retryAfter: strconv.Itoa(int(math.Ceil(window.Seconds() / float64(max)))),
		now:        time.Now,
		clients:    make(map[string]*visitor),
	}
}

// Allow takes one token from key's bucket.
func (l *RateLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// a bucket idle for a whole window is full again, so dropping it is
	// the same as keeping it
	if now.Sub(l.lastSweep) > l.window {
		for k, v := range l.clients {
			if now.Sub(v.seen) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = v
	}
	v.seen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware answers 429 once the caller's IP runs out of tokens.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", l.retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Message: "Too many requests, please try again later.",
				Code:    CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
