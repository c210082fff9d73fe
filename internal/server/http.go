package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taslimamindia/inboxpilot/internal/instrumentation"
)

const (
	defaultHTTPReadTimeout  = 10 * time.Second
	defaultHTTPWriteTimeout = 10 * time.Second
	defaultHTTPIdleTimeout  = 120 * time.Second
)

// HTTPServer serves the MCP streamable-http transport together with the
// health endpoints on a single listener.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	httpServer *http.Server
	health     *HealthChecker
	metrics    *instrumentation.Metrics
}

// NewHTTPServer creates an HTTP server for the given MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer) *HTTPServer {
	return &HTTPServer{mcpServer: mcpSrv}
}

// SetHealthChecker attaches the health checker whose endpoints are
// registered alongside the MCP endpoint.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.health = h
}

// SetMetrics enables per-request HTTP metrics.
func (s *HTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// Start runs the HTTP server and blocks until it stops. Run it in a
// goroutine for non-blocking operation.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)

	var mcpHandler http.Handler = streamable
	if s.metrics != nil {
		mcpHandler = s.instrumentHandler("/mcp", mcpHandler)
	}
	mux.Handle("/mcp", mcpHandler)

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: defaultHTTPReadTimeout,
		WriteTimeout:      defaultHTTPWriteTimeout,
		IdleTimeout:       defaultHTTPIdleTimeout,
	}

	slog.Info("starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// instrumentHandler records request count and duration for a route.
func (s *HTTPServer) instrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so the streamable transport
// can flush partial responses.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
