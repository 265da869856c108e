package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServer exposes health and metrics endpoints and, once MountMCP is
// called, the streamable MCP endpoint.
type HTTPServer struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *slog.Logger
}

// NewHTTPServer creates an HTTP server with /healthz and /metrics routes.
func NewHTTPServer(addr string, logger *slog.Logger) *HTTPServer {
	router := mux.NewRouter()

	s := &HTTPServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		router: router,
		logger: logger,
	}

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s
}

// MountMCP serves the MCP server at path using the streamable HTTP
// transport. Each POST carries one client message; GET opens the optional
// server-to-client stream and DELETE ends a session.
func (s *HTTPServer) MountMCP(path string, mcpServer *server.MCPServer) {
	streamable := server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath(path))
	s.router.Handle(path, streamable).Methods(http.MethodPost, http.MethodGet, http.MethodDelete)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *HTTPServer) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires, after which remaining connections are closed.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("http server did not drain in time, closing connections", "error", err)
		_ = s.httpServer.Close()
	}
	return err
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
