package server

import (
	"net/http"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// Tag, status and user handlers

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	viewer, uerr := s.actingUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	tags, err := s.tags.List(viewer)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleAssignTag(w http.ResponseWriter, r *http.Request) {
	s.tagAssignment(w, r, s.tags.Assign)
}

func (s *Server) handleUnassignTag(w http.ResponseWriter, r *http.Request) {
	s.tagAssignment(w, r, s.tags.Unassign)
}

func (s *Server) tagAssignment(w http.ResponseWriter, r *http.Request, fn func(string, int, *models.User) error) {
	number, perr := pathNumber(r)
	if perr != nil {
		s.writeSharedError(w, r, perr)
		return
	}
	user, uerr := s.requireUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	if err := fn(r.PathValue("slug"), number, user); err != nil {
		s.writeSharedError(w, r, err)
		return
	}

	idea, err := s.ideas.Get(number, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ideaToResponse(idea))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := s.status.GetSummary(queryInt(r, "activity", 10))
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user, uerr := s.requireUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
