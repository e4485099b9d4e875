package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html", "home"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// WebSocket event stream
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Credential vault (save/load/delete per kind)
	mux.HandleFunc("/api/credentials/", s.app.CredentialHandler.HandleCredentials)

	// API routes - Query execution
	mux.HandleFunc("/api/query/odata", s.app.QueryHandler.ODataHandler)
	mux.HandleFunc("/api/query/get", s.app.QueryHandler.GetHandler)
	mux.HandleFunc("/api/query/post", s.app.QueryHandler.PostHandler)

	// API routes - Version
	mux.HandleFunc("/api/version", s.app.VersionHandler.VersionHandler)
	mux.HandleFunc("/api/version/check", s.app.VersionHandler.CheckUpdatesHandler)

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
