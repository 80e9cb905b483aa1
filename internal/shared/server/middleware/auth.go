package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/respond"
)

const (
	callerKey    = "caller"
	userIDKey    = "userId"
	authErrorKey = "authError"
)

// Identify resolves the bearer token into a Caller. It never aborts: a missing
// or invalid token yields an anonymous caller and RequireAuth decides later.
func Identify(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var caller auth.Caller = auth.Anonymous{}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header != "" {
			token, ok := bearerToken(header)
			if !ok || verifier == nil {
				c.Set(authErrorKey, auth.ErrInvalidToken)
			} else if id, err := verifier.Verify(c.Request.Context(), token); err != nil {
				c.Set(authErrorKey, err)
			} else {
				caller = id
				c.Set(userIDKey, id.UserID)
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthenticated(CallerFromContext(c)) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		c.Next()
	}
}

// CallerFromContext returns the caller stored by Identify, or Anonymous.
func CallerFromContext(c *gin.Context) auth.Caller {
	if c == nil {
		return auth.Anonymous{}
	}
	if val, ok := c.Get(callerKey); ok {
		if caller, ok := val.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Anonymous{}
}

// UserIDFromContext fetches the authenticated user ID, or "".
func UserIDFromContext(c *gin.Context) string {
	return auth.UserID(CallerFromContext(c))
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
