package bootstrap

import (
	"net"
	"net/http"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/config"
	"github.com/hdoo42/mock-veeam-server/internal/metrics"
	"github.com/hdoo42/mock-veeam-server/internal/services"
	"github.com/hdoo42/mock-veeam-server/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	AuditLog        *audit.Log
	MetricsRecorder metrics.Recorder
	TokenStore      *store.MemoryStore

	// Services
	TokenService *services.TokenService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
	Listener   net.Listener
}

// Run initializes and starts the mock server
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateConfiguration(cfg)

	// Phase 2: Initialize infrastructure (audit log must exist before the
	// server answers its first /health probe)
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer (binds the listener; a bind failure
	// aborts startup here with a clear diagnostic)
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up the audit log and metrics
func (app *Application) initializeInfrastructure() error {
	auditLog, err := audit.Open(app.Config.LogFile)
	if err != nil {
		return err
	}
	app.AuditLog = auditLog

	app.MetricsRecorder = initializeMetrics(app.Config)
	return nil
}

// initializeBusinessLayer sets up the token store and service
func (app *Application) initializeBusinessLayer() {
	app.TokenStore = store.New()
	app.TokenService = services.NewTokenService(
		app.TokenStore,
		app.AuditLog,
		app.MetricsRecorder,
		app.Config,
	)
}

// initializeHTTPLayer sets up handlers, router, server, and listener
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(app.TokenService, app.AuditLog)

	app.Router = setupRouter(
		app.Config,
		app.HandlerSet,
		app.MetricsRecorder,
		app.AuditLog,
		app.TokenService,
	)

	app.Server = createHTTPServer(app.Router)

	listener, err := bindListener(app.Config)
	if err != nil {
		return err
	}
	app.Listener = listener

	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server, app.Listener)
	addServerShutdownJob(m, app.Server)
	addAuditLogShutdownJob(m, app.AuditLog)

	// Wait for graceful shutdown
	<-m.Done()
}

// initializeMetrics sets up the metrics recorder
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	return metrics.Init(cfg.MetricsEnabled)
}
