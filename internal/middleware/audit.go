package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/models"
)

const anonymousUser = "anonymous"

type auditLogger interface {
	LogAction(ctx context.Context, user, action, details string)
}

// Audit records successful requests in the activity log.
func Audit(activity auditLogger, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if activity == nil || c.Writer.Status() >= 400 {
			return
		}

		user := anonymousUser
		if claims, ok := c.Get(ContextUserKey); ok {
			if typed, ok := claims.(*models.JWTClaims); ok && typed.Username != "" {
				user = typed.Username
			}
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
			"ip":      c.ClientIP(),
		})

		activity.LogAction(c.Request.Context(), user, action, string(body))
	}
}
