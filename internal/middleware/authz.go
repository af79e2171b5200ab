package middleware

import (
	"net/http"

	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const userIDKey = "user_id"

// RequireAuth is the access guard in front of every task and profile
// route. It pulls the session token from the cookie, verifies it and puts
// the owner's id on the context. Missing, malformed and expired tokens all
// produce the same 401 so a caller cannot tell which check failed.
func RequireAuth(cookieName string, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			abortUnauthenticated(c)
			return
		}

		userID, err := tokens.VerifyToken(tokenStr)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthenticated",
		"message": "Authentication required",
	})
}

// UserIDFromContext returns the identity the guard attached to the request.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// SetUserID stamps an identity on the context the way the guard does;
// exported for handler tests.
func SetUserID(c *gin.Context, userID uuid.UUID) {
	c.Set(userIDKey, userID)
}
