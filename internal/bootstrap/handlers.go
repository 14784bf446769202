package bootstrap

import (
	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/handlers"
	"github.com/hdoo42/mock-veeam-server/internal/services"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	token    *handlers.TokenHandler
	resource *handlers.ResourceHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	tokenService *services.TokenService,
	auditLog *audit.Log,
) handlerSet {
	return handlerSet{
		token:    handlers.NewTokenHandler(tokenService, auditLog),
		resource: handlers.NewResourceHandler(auditLog),
	}
}
