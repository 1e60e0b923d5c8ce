package middleware

import (
	"net/http"
	"sync"
	"time"

	"arena-api/config"
	"arena-api/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its bucket
const visitorTTL = 10 * time.Minute

type RateLimiter struct {
    visitors map[string]*Visitor
    mu       sync.Mutex
    limit    rate.Limit
    burst    int
    now      func() time.Time
}

type Visitor struct {
    limiter  *rate.Limiter
    lastSeen time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
    return &RateLimiter{
        visitors: make(map[string]*Visitor),
        limit:    rate.Limit(cfg.RequestsPerSecond),
        burst:    cfg.Burst,
        now:      time.Now,
    }
}

func (rl *RateLimiter) getVisitor(ip string) *Visitor {
    rl.mu.Lock()
    defer rl.mu.Unlock()

    now := rl.now()
    for key, visitor := range rl.visitors {
        if now.Sub(visitor.lastSeen) > visitorTTL {
            delete(rl.visitors, key)
        }
    }

    visitor, exists := rl.visitors[ip]
    if !exists {
        visitor = &Visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
        rl.visitors[ip] = visitor
    }
    visitor.lastSeen = now
    return visitor
}

// Allow consumes one token of the bucket of ip
func (rl *RateLimiter) Allow(ip string) bool {
    return rl.getVisitor(ip).limiter.AllowN(rl.now(), 1)
}

func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
    return func(c *gin.Context) {
        ip := c.ClientIP()
        if !rl.Allow(ip) {
            route := c.FullPath()
            if route == "" {
                route = "unmatched"
            }
            metrics.RateLimiterRejections.WithLabelValues(route).Inc()

            c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
                "error":   "rate_limited",
                "message": "Too many requests. Please try again later.",
            })
            return
        }
        c.Next()
    }
}
