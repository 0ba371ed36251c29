package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlingo/pawlingo-server/internal/auth"
	"github.com/pawlingo/pawlingo-server/internal/models"
)

// AuthHandler handles authentication and profile routes
type AuthHandler struct {
	Auth *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: authService}
}

// Login signs the user in through the requested identity provider
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.Provider.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider"})
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), input.Provider, input.Credentials)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrProviderUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Provider unavailable"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed"})
		}
		return
	}

	token, expiry, err := auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": expiry,
		"user":   user,
	})
}

// Logout clears the current session. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Auth.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// GetMe returns the current user profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := h.Auth.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile merges partial profile fields into the current user record
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), update)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
