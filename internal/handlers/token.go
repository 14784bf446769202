package handlers

import (
	"errors"
	"net/http"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/services"

	"github.com/gin-gonic/gin"
)

type TokenHandler struct {
	tokenService *services.TokenService
	auditLog     *audit.Log
}

func NewTokenHandler(ts *services.TokenService, auditLog *audit.Log) *TokenHandler {
	return &TokenHandler{
		tokenService: ts,
		auditLog:     auditLog,
	}
}

// Token handles POST /oauth2/token and /api/oauth2/token. Form-encoded
// body; grant_type selects password (RFC 6749 §4.3) or refresh_token
// (RFC 6749 §6). Any other grant type is a 400.
func (h *TokenHandler) Token(c *gin.Context) {
	grantType := c.PostForm("grant_type")

	h.auditLog.Printf("=== Token Request ===")
	h.auditLog.Printf("Grant type: %s", grantType)

	switch grantType {
	case services.GrantTypePassword:
		h.handlePasswordGrant(c)
	case services.GrantTypeRefreshToken:
		h.handleRefreshTokenGrant(c)
	default:
		h.auditLog.Printf("Unsupported grant type: %s", grantType)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported grant type",
		})
	}
}

// handlePasswordGrant exchanges username/password for a token pair.
func (h *TokenHandler) handlePasswordGrant(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	pair, err := h.tokenService.PasswordGrant(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid credentials",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Token issuance failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// handleRefreshTokenGrant exchanges a previously issued refresh token for
// a fresh token pair. The old refresh token stays usable.
func (h *TokenHandler) handleRefreshTokenGrant(c *gin.Context) {
	refreshToken := c.PostForm("refresh_token")

	pair, err := h.tokenService.RefreshGrant(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRefreshToken):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid refresh token",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Token issuance failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}
