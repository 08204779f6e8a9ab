package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/eventloop"
	"storefront/internal/metrics"
	"storefront/internal/render"
	"storefront/internal/session"
)

// Deps are the collaborators the page host drives.
type Deps struct {
	Loop    *eventloop.Loop
	Session *session.Session
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Server with the page and API routes.
func New(cfg config.HTTPConfig, deps Deps) (*Server, error) {
	if deps.Loop == nil || deps.Session == nil {
		return nil, errors.New("httpserver: loop and session are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := buildRouter(cfg, deps, render.Templates())

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     deps.Logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(loop *eventloop.Loop, ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := loop.Do(ctx, func() {}); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "event loop not running"})
			return
		}
		if ready != nil {
			if err := ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "store not reachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
