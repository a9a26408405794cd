package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Challenge handles the challenge request
func (h *AuthHandlers) Challenge(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	challenge, err := h.authService.RequestChallenge(c.Request.Context(), req.Address)
	if err != nil {
		if err == core.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wallet is not authorized for this surface"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":    challenge.Address,
		"nonce":      challenge.Nonce,
		"expires_at": challenge.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Verify handles the signed challenge response
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Nonce     string `json:"nonce" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, claims, err := h.authService.SubmitResponse(c.Request.Context(), req.Address, req.Nonce, req.Signature)
	if err != nil {
		// One generic message for every challenge and signature failure, so
		// callers cannot probe which validation step rejected them.
		if service.IsAuthFailure(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete authentication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(time.Until(claims.ExpiresAt).Seconds()),
	})
}

// Me returns the identity embedded in the validated token
func (h *AuthHandlers) Me(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":     claims.Address,
		"role":        claims.Role,
		"permissions": claims.Permissions,
		"user_id":     claims.UserID,
	})
}

// Authorize checks the validated token for a required permission
func (h *AuthHandlers) Authorize(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	permission := core.Permission(c.Query("permission"))
	if permission == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing permission parameter"})
		return
	}

	if !claims.HasPermission(permission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"address":    claims.Address,
	})
}

func mustClaims(c *gin.Context) *core.Claims {
	v, exists := c.Get(contextClaimsKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Claims not found in context"})
		return nil
	}
	return v.(*core.Claims)
}
