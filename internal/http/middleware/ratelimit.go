package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vibechat/service/internal/ratelimit"
)

// RateLimit returns a middleware enforcing the per-client request limit.
// A nil manager or a zero limit disables enforcement.
func RateLimit(manager *ratelimit.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || manager.Limit() <= 0 {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		result, errAllow := manager.Allow(c.Request.Context(), key)
		if errAllow != nil {
			// Limiter backends already fall back internally; never
			// fail the request on limiter errors.
			c.Next()
			return
		}
		if !result.Allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded",
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Next()
	}
}
