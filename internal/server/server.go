package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "github.com/sendlens/sendlens/internal/errors"
	"github.com/sendlens/sendlens/internal/observability"
	"github.com/sendlens/sendlens/internal/server/handlers"
	servermw "github.com/sendlens/sendlens/internal/server/middleware"
)

// Server wraps the chi router and the http.Server lifecycle for the
// HTTP transport mode. Tool traffic is served under /mcp; health,
// version and metrics endpoints sit alongside it.
type Server struct {
	router *chi.Mux
	server *http.Server
	host   string
	port   int

	mcpHandler http.Handler
}

// New creates an HTTP server. mcpHandler carries the streamable tool
// transport and is mounted at /mcp; pass nil to serve only the
// operational endpoints.
func New(host string, port int, mcpHandler http.Handler) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)

	// Ordering matters: request IDs first for correlation, metrics
	// around everything, panic recovery outermost.
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewNotFound("The requested resource was not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewMethodNotAllowed("The requested method is not allowed for this resource"))
	})

	s := &Server{
		router:     r,
		host:       host,
		port:       port,
		mcpHandler: mcpHandler,
	}

	handlers.SetHTTPErrorResponder(HandleError)

	s.registerRoutes()

	return s
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	observability.ServerLogger.Info("Starting HTTP server",
		zap.String("host", s.host),
		zap.Int("port", s.port),
		zap.String("addr", addr))

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.ServerLogger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured server port.
func (s *Server) Port() int {
	return s.port
}
