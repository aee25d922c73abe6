package models

import (
	"fmt"
	"strings"
	"time"
)

// Idea is a suggestion submitted by a user.
type Idea struct {
	ID          int64      `json:"id"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Status      IdeaStatus `json:"status"`
	UserID      int64      `json:"user_id"`

	// TotalSupporters is the number of users supporting the idea.
	TotalSupporters int `json:"total_supporters"`

	CreatedAt time.Time `json:"created_at"`

	// Response is set once staff has responded.
	Response *IdeaResponse `json:"response,omitempty"`

	// Computed fields (not stored in DB, populated by queries)
	User          *User    `json:"user,omitempty"`
	Tags          []string `json:"tags"`
	TotalComments int      `json:"total_comments"`
	ViewerSupport bool     `json:"viewer_supported"`
}

// IdeaResponse is the staff answer attached to an idea.
type IdeaResponse struct {
	Text        string    `json:"text"`
	RespondedAt time.Time `json:"responded_at"`
	User        *User     `json:"user,omitempty"`

	// Original is the idea this one duplicates, when Status is duplicate.
	Original *OriginalIdea `json:"original,omitempty"`
}

// OriginalIdea is the summary of the idea a duplicate points to.
type OriginalIdea struct {
	Number int        `json:"number"`
	Title  string     `json:"title"`
	Slug   string     `json:"slug"`
	Status IdeaStatus `json:"status"`
}

// CanBeSupported returns true if supporters may still be added or removed.
func (i *Idea) CanBeSupported() bool {
	return !i.Status.IsClosed() && i.Status != IdeaDeleted
}

// Validate validates the idea fields.
func (i *Idea) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(i.Title) > 100 {
		return fmt.Errorf("title must be 100 characters or less")
	}
	if i.UserID <= 0 {
		return fmt.Errorf("user_id is required")
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	return nil
}

// ValidateTitle applies the submission rules for a new or edited title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) < 10 {
		return fmt.Errorf("title needs to be more descriptive")
	}
	if len(title) > 100 {
		return fmt.Errorf("title must be 100 characters or less")
	}
	return nil
}
