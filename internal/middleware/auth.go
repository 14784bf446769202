package middleware

import (
	"net/http"
	"strings"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/services"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// RequireBearer guards the protected resource endpoints. The header must
// carry the literal "Bearer " prefix; the remainder is looked up in the
// token store and checked against the token lifetime.
func RequireBearer(tokens *services.TokenService, auditLog *audit.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			unauthorized(c, auditLog)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if err := tokens.Validate(c.Request.Context(), token); err != nil {
			unauthorized(c, auditLog)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, auditLog *audit.Log) {
	auditLog.Printf("RESULT: 401 Unauthorized")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized",
	})
}
