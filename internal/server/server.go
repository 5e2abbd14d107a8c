// Package server runs the HTTP server and the background worker with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/routes"
	"github.com/sevasetu/sevasetu/internal/bootstrap"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the application it serves
type Server struct {
	app  *bootstrap.App
	http *http.Server
}

// New creates a configured server from a bootstrapped application
func New(app *bootstrap.App) *Server {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	routes.Setup(router, app.Controllers, app.JWTService)

	return &Server{
		app: app,
		http: &http.Server{
			Addr:              ":" + app.Config.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run starts the outbox worker and the HTTP server, then blocks until a
// termination signal arrives and everything has shut down.
func (s *Server) Run() error {
	if err := s.app.Worker.Start(); err != nil {
		return fmt.Errorf("failed to start outbox worker: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.app.Worker.Stop()
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown of HTTP server")
	}
	s.app.Worker.Stop()
	s.app.Close()

	logger.Info().Msg("Shutdown complete")
	return nil
}
