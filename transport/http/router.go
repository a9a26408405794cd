// Package http exposes the authentication service over HTTP. Collaborating
// apps (portal, backoffice, certificate viewer) mount their own route groups
// behind AuthMiddleware and RequirePermission.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/chainregistry/warden/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/challenge", handlers.Challenge)
		auth.POST("/verify", handlers.Verify)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(authService))
	{
		api.GET("/me", handlers.Me)
		api.GET("/authorize", handlers.Authorize)
	}

	return router
}
