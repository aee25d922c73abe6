package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /api/ideas", s.handleListIdeas)
	s.router.HandleFunc("POST /api/ideas", s.handleCreateIdea)
	s.router.HandleFunc("GET /api/ideas/{number}", s.handleGetIdea)
	s.router.HandleFunc("PUT /api/ideas/{number}", s.handleEditIdea)
	s.router.HandleFunc("GET /api/ideas/{number}/comments", s.handleListComments)
	s.router.HandleFunc("POST /api/ideas/{number}/comments", s.handleAddComment)
	s.router.HandleFunc("GET /api/ideas/{number}/history", s.handleHistory)
	s.router.HandleFunc("POST /api/ideas/{number}/respond", s.handleRespond)
	s.router.HandleFunc("POST /api/ideas/{number}/support", s.handleSupport)
	s.router.HandleFunc("DELETE /api/ideas/{number}/support", s.handleUnsupport)
	s.router.HandleFunc("POST /api/ideas/{number}/tags/{slug}", s.handleAssignTag)
	s.router.HandleFunc("DELETE /api/ideas/{number}/tags/{slug}", s.handleUnassignTag)

	s.router.HandleFunc("GET /api/tags", s.handleListTags)
	s.router.HandleFunc("GET /api/status", s.handleStatus)
	s.router.HandleFunc("GET /api/me", s.handleWhoAmI)

	s.router.HandleFunc("GET /api/health", s.handleHealth)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
