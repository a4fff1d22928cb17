package middlewares

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/config"
)

// IssueRateLimiter caps issue submissions per caller per 24h window.
// Authenticated callers are keyed by user id, anonymous ones by client
// IP, since submission is open to both.
func IssueRateLimiter(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if p := GetPrincipal(c); p != nil && p.UserID != "" {
			key = p.UserID
		}

		queuePrefix := os.Getenv("REDIS_QUEUE_FOR_ISSUE_LIMIT")
		if queuePrefix == "" {
			queuePrefix = "issue_limit"
		}
		userKey := queuePrefix + ":" + key

		ctx := config.Ctx
		count, err := config.RedisClient.Incr(ctx, userKey).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment (when count = 1)
		if count == 1 {
			err = config.RedisClient.Expire(ctx, userKey, 24*time.Hour).Err()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := config.RedisClient.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
