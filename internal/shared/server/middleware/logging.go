package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		caller := CallerFromContext(c)
		callerKind := "anonymous"
		if auth.IsAuthenticated(caller) {
			callerKind = "authenticated"
		}
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     auth.UserID(caller),
			"caller":      callerKind,
			"client_ip":   c.ClientIP(),
		}
		if err, ok := c.Get(authErrorKey); ok {
			fields["auth_error"] = err
		}
		telemetry.Info("request.complete", fields)
	}
}
