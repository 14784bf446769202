package bootstrap

import (
	"log"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/config"
	"github.com/hdoo42/mock-veeam-server/internal/handlers"
	"github.com/hdoo42/mock-veeam-server/internal/metrics"
	"github.com/hdoo42/mock-veeam-server/internal/middleware"
	"github.com/hdoo42/mock-veeam-server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route aliases: the real Veeam API is reachable both with and without
// the /api prefix, and the exporter configs under test use both forms.
var (
	tokenPaths    = []string{"/oauth2/token", "/api/oauth2/token"}
	resourcePaths = []string{"/api/v1", "/v1"}
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	recorder metrics.Recorder,
	auditLog *audit.Log,
	tokenService *services.TokenService,
) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(auditLog))

	// Health check endpoint (no auth; driver liveness probe)
	r.GET("/health", handlers.Health)

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Token endpoint
	for _, path := range tokenPaths {
		r.POST(path, h.token.Token)
	}

	// Protected resource endpoints
	requireBearer := middleware.RequireBearer(tokenService, auditLog)
	for _, prefix := range resourcePaths {
		g := r.Group(prefix)
		g.Use(requireBearer)
		{
			g.GET("/serverTime", h.resource.ServerTime)
			g.GET("/backups", h.resource.Backups)
		}
	}

	// Everything else is a JSON 404
	r.NoRoute(handlers.NotFound)

	// Log server startup info
	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	if !cfg.MetricsEnabled {
		log.Printf("Prometheus metrics disabled")
		return
	}
	log.Printf("Prometheus metrics enabled at /metrics")
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupGinMode sets Gin mode based on configuration
func setupGinMode(cfg *config.Config) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Mock Veeam Server on %s", cfg.BaseURL())
	log.Printf("Token lifetime: %d seconds", int(cfg.TokenLifetime.Seconds()))
	log.Printf("Log file: %s", cfg.LogFile)
}
