package server

import (
	"net/http"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/diogenes-ai-code/sprout/internal/service"
)

// Idea handlers

// CreateIdeaRequest is the body of POST /api/ideas and PUT /api/ideas/{number}.
type CreateIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CommentRequest is the body of POST /api/ideas/{number}/comments.
type CommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	viewer, uerr := s.actingUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	q := r.URL.Query()
	filter := db.IdeaFilter{
		Query: strings.TrimSpace(q.Get("q")),
		View:  models.ListView(strings.ToLower(q.Get("view"))),
		Limit: queryInt(r, "limit", 30),
	}
	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Statuses = append(filter.Statuses, models.IdeaStatus(strings.ToLower(part)))
			}
		}
	}
	for _, tag := range q["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" {
			filter.Tags = append(filter.Tags, tag)
		}
	}

	ideas, err := s.ideas.List(filter, viewer)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}

	response := make([]IdeaResponse, 0, len(ideas))
	for _, idea := range ideas {
		response = append(response, s.ideaToResponse(idea))
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	user, uerr := s.requireUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}
	var req CreateIdeaRequest
	if derr := decodeJSON(r, &req); derr != nil {
		s.writeSharedError(w, r, derr)
		return
	}

	idea, err := s.ideas.Create(req.Title, req.Description, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.ideaToResponse(idea))
}

func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	number, perr := pathNumber(r)
	if perr != nil {
		s.writeSharedError(w, r, perr)
		return
	}
	viewer, uerr := s.actingUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	idea, err := s.ideas.Get(number, viewer)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ideaToResponse(idea))
}

func (s *Server) handleEditIdea(w http.ResponseWriter, r *http.Request) {
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
	var req CreateIdeaRequest
	if derr := decodeJSON(r, &req); derr != nil {
		s.writeSharedError(w, r, derr)
		return
	}

	idea, err := s.ideas.Edit(number, req.Title, req.Description, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ideaToResponse(idea))
}

// handleRespond is the staff response form: status, text and, for
// duplicates, the original idea number.
func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
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
	var input service.RespondInput
	if derr := decodeJSON(r, &input); derr != nil {
		s.writeSharedError(w, r, derr)
		return
	}

	idea, err := s.responses.Respond(number, input, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ideaToResponse(idea))
}

func (s *Server) handleSupport(w http.ResponseWriter, r *http.Request) {
	s.toggleSupport(w, r, s.ideas.Support)
}

func (s *Server) handleUnsupport(w http.ResponseWriter, r *http.Request) {
	s.toggleSupport(w, r, s.ideas.Unsupport)
}

func (s *Server) toggleSupport(w http.ResponseWriter, r *http.Request, fn func(int, *models.User) (*models.Idea, error)) {
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

	idea, err := fn(number, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ideaToResponse(idea))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	number, perr := pathNumber(r)
	if perr != nil {
		s.writeSharedError(w, r, perr)
		return
	}
	viewer, uerr := s.actingUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	comments, err := s.ideas.Comments(number, viewer)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		response = append(response, s.commentToResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
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
	var req CommentRequest
	if derr := decodeJSON(r, &req); derr != nil {
		s.writeSharedError(w, r, derr)
		return
	}

	comment, err := s.ideas.AddComment(number, req.Content, user)
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.commentToResponse(comment))
}

// ActivityResponse represents a history entry in API responses.
type ActivityResponse struct {
	*models.Activity
	Age string `json:"age"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	number, perr := pathNumber(r)
	if perr != nil {
		s.writeSharedError(w, r, perr)
		return
	}
	viewer, uerr := s.actingUser(r)
	if uerr != nil {
		s.writeSharedError(w, r, uerr)
		return
	}

	entries, err := s.ideas.History(number, viewer, queryInt(r, "limit", 20))
	if err != nil {
		s.writeSharedError(w, r, err)
		return
	}

	response := make([]ActivityResponse, 0, len(entries))
	for _, a := range entries {
		response = append(response, ActivityResponse{Activity: a, Age: s.ago(a.CreatedAt)})
	}
	writeJSON(w, http.StatusOK, response)
}
