package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	mem "lucidly/pkg/memcache"
	"lucidly/pkg/utils"
)

// RateLimitMiddleware throttles per authenticated user, falling back to the
// client address. It must run after SessionAuthMiddleware to see the user.
func RateLimitMiddleware(limiters mem.LimiterStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(userIDKey)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !limiters.Get(key).Allow() {
			log.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.FullPath()),
				zap.String("trace_id", c.GetString("trace_id")))
			utils.HandleServiceError(c, utils.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
