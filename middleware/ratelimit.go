package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"justeat/cache"
	"justeat/guard"
	"justeat/metrics"
)

// CartRateLimit throttles cart additions per customer. It must run after
// the guard chain has established the caller.
func CartRateLimit(limiter *cache.RateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := guard.CurrentIdentity(c)
		if !ok {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), strconv.FormatUint(uint64(identity.UserID), 10)) {
			m.CartAddThrottled()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "Too many cart updates. Please slow down.",
				"redirect": guard.CustomerDashboardPath,
			})
			return
		}
		c.Next()
	}
}
