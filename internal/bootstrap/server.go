package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/config"

	"github.com/appleboy/graceful"
)

// shutdownTimeout bounds graceful shutdown; the test driver force-kills
// the process 5 seconds after sending the interrupt.
const shutdownTimeout = 5 * time.Second

// createHTTPServer creates the HTTP server instance
func createHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// bindListener binds the listening socket eagerly so that a bind failure
// aborts startup with a clear diagnostic instead of surfacing later from
// a serving goroutine. Go's TCP listener enables SO_REUSEADDR, so rapid
// harness restarts do not fail on "address in use".
func bindListener(cfg *config.Config) (net.Listener, error) {
	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.Addr(), err)
	}
	return listener, nil
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server, listener net.Listener) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to serve: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addAuditLogShutdownJob adds audit log close handler
func addAuditLogShutdownJob(m *graceful.Manager, auditLog *audit.Log) {
	m.AddShutdownJob(func() error {
		auditLog.Printf("Shutting down...")
		if err := auditLog.Close(); err != nil {
			log.Printf("Error closing request log: %v", err)
			return err
		}
		return nil
	})
}
