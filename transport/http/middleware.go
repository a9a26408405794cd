package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/service"
)

// contextClaimsKey is where the auth middleware stores validated claims.
const contextClaimsKey = "authClaims"

// AuthMiddleware creates middleware that validates bearer tokens and stores
// the embedded claims in the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(contextClaimsKey, claims)

		c.Next()
	}
}

// RequirePermission creates middleware that rejects requests whose validated
// claims lack the given permission. It must run after AuthMiddleware.
func RequirePermission(permission core.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := mustClaims(c)
		if claims == nil {
			c.Abort()
			return
		}

		if !claims.HasPermission(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			return
		}

		c.Next()
	}
}
