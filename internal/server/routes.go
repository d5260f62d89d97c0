package server

import (
	"net/http"

	"github.com/bobmcallan/restmcp/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP transport endpoints. Patterns without a trailing slash match the
	// exact path only, which is what mcp-go expects.
	if s.app.MCPHandler != nil {
		for _, path := range s.app.MCPHandler.Paths() {
			mux.Handle(path, s.app.MCPHandler)
		}
	}

	mux.Handle("/metrics", s.app.Metrics.Handler())

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "no route for "+r.URL.Path)
}
