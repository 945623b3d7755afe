package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/server/auth"
)

// Context keys set by AuthRequired.
const (
	ContextKeyUserID = "userId"
	ContextKeyRole   = "role"
)

// AuthRequired validates the bearer token and stores the caller's identity
// in the request context. Every route except login and registration runs
// behind it.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header"})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Next()
	}
}
