// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmeta-cli/internal/config"
)

//go:embed index.html
var indexHTML []byte

// Server wraps the gin engine and the http.Server lifecycle.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	logger *log.Logger
}

// New builds a Server with all routes registered. A nil logger falls back
// to log.Default().
func New(cfg config.ServerConfig, h *BookHandler, coversDir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	SetupRoutes(engine, h, coversDir)

	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Addr returns the host:port the server binds to.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// URL returns the browsable base URL for the bound address.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Run serves until ctx is cancelled, then shuts down gracefully with a
// 15 second drain window. It returns nil on clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("serving catalog", "addr", s.URL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// requestLogger tags each request with an ID and reports method, path,
// status and latency.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
		logger.Debug("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}
