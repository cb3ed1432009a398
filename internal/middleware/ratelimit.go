package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/neopulse/internal/domain/dto"
)

// client tracks one IP's request count inside its current fixed window.
type client struct {
	windowStart time.Time
	count       int
}

// In-memory, per-process store. The read API is a single small instance.
var (
	clients         = make(map[string]*client)
	lastSweep       time.Time
	window          = time.Minute
	limit           = 60
	rateLimiterLock sync.Mutex
)

// RateLimiter allows up to `limit` requests per `window` per client IP (default 60/min)
// and answers 429 with an ErrorResponse once exceeded.
//
// Behavior:
//   - Retry-After carries the whole seconds left in the client's window (at least 1).
//   - At most once per window, clients whose window has ended are dropped from memory.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rateLimiterLock.Lock()
		sweepLocked(now)
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.windowStart) >= window {
			cl = &client{windowStart: now}
			clients[ip] = cl
		}
		cl.count++
		exceeded := cl.count > limit
		retryAfter := cl.windowStart.Add(window).Sub(now)
		rateLimiterLock.Unlock()

		if exceeded {
			c.Header("Retry-After", retryAfterSeconds(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}

		c.Next()
	}
}

// sweepLocked drops expired clients. Caller holds rateLimiterLock.
func sweepLocked(now time.Time) {
	if now.Sub(lastSweep) < window {
		return
	}
	for ip, cl := range clients {
		if now.Sub(cl.windowStart) >= window {
			delete(clients, ip)
		}
	}
	lastSweep = now
}

func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(max(1, int(math.Ceil(d.Seconds()))))
}

// resetRateLimiter clears all tracked clients.
func resetRateLimiter() {
	rateLimiterLock.Lock()
	defer rateLimiterLock.Unlock()
	clients = make(map[string]*client)
	lastSweep = time.Time{}
}
