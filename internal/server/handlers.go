package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/markup"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

const maxBodyBytes = 1 << 20

// API Response types

// IdeaResponse represents an idea in API responses.
type IdeaResponse struct {
	*models.Idea
	DescriptionHTML string `json:"description_html,omitempty"`
	CreatedDisplay  string `json:"created_display"`
	CreatedAgo      string `json:"created_ago"`

	ResponseHTML     string `json:"response_html,omitempty"`
	RespondedDisplay string `json:"responded_display,omitempty"`
	RespondedAgo     string `json:"responded_ago,omitempty"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	*models.Comment
	ContentHTML    string `json:"content_html"`
	CreatedDisplay string `json:"created_display"`
	CreatedAgo     string `json:"created_ago"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	// Field names the request field that failed validation.
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) displayDate(t time.Time) string {
	return common.FormatDate(t.In(s.config.Location))
}

func (s *Server) ago(t time.Time) string {
	return common.TimeSince(s.now(), t)
}

func (s *Server) ideaToResponse(idea *models.Idea) IdeaResponse {
	resp := IdeaResponse{
		Idea:           idea,
		CreatedDisplay: s.displayDate(idea.CreatedAt),
		CreatedAgo:     s.ago(idea.CreatedAt),
	}
	if html, err := markup.Render(idea.Description); err == nil {
		resp.DescriptionHTML = html
	}
	if idea.Response != nil {
		resp.RespondedDisplay = s.displayDate(idea.Response.RespondedAt)
		resp.RespondedAgo = s.ago(idea.Response.RespondedAt)
		if html, err := markup.Render(idea.Response.Text); err == nil {
			resp.ResponseHTML = html
		}
	}
	return resp
}

func (s *Server) commentToResponse(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		Comment:        c,
		CreatedDisplay: s.displayDate(c.CreatedAt),
		CreatedAgo:     s.ago(c.CreatedAt),
	}
	if html, err := markup.Render(c.Content); err == nil {
		resp.ContentHTML = html
	}
	return resp
}

// actingUser resolves the user named by the UserHeader. No header means an
// anonymous request.
func (s *Server) actingUser(r *http.Request) (*models.User, *errors.Error) {
	email := r.Header.Get(UserHeader)
	if email == "" {
		return nil, nil
	}
	user, err := s.users.Resolve(email)
	if err != nil {
		if errors.Is(err, errors.KindNotFound) {
			return nil, errors.Forbidden("unknown user %q", email)
		}
		return nil, toSharedError(err)
	}
	return user, nil
}

// requireUser is actingUser for endpoints that cannot be used anonymously.
func (s *Server) requireUser(r *http.Request) (*models.User, *errors.Error) {
	user, err := s.actingUser(r)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Forbidden("this action requires a user").
			WithSuggestion("Send the " + UserHeader + " header with a registered email.")
	}
	return user, nil
}

func pathNumber(r *http.Request) (int, *errors.Error) {
	n, err := common.ParseIdeaNumber(r.PathValue("number"))
	if err != nil {
		return 0, errors.InvalidArgs("%v", err)
	}
	return n, nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) *errors.Error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.InvalidArgs("invalid request body: %v", err)
	}
	return nil
}

func toSharedError(err error) *errors.Error {
	if e, ok := errors.As(err); ok {
		return e
	}
	return errors.WrapInternal(err, "internal error")
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

// writeSharedError writes an error response using the shared error type.
// The cause of internal errors is logged, never sent to the client.
func (s *Server) writeSharedError(w http.ResponseWriter, r *http.Request, err error) {
	e := toSharedError(err)
	status := e.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:      http.StatusText(status),
		Code:       status,
		Message:    e.Message,
		Field:      e.Field,
		Suggestion: e.Suggestion,
	})
}
