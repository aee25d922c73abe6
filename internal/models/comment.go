package models

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a message posted on an idea.
type Comment struct {
	ID        int64      `json:"id"`
	IdeaID    int64      `json:"idea_id"`
	Content   string     `json:"content"`
	UserID    int64      `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	EditedBy  *int64     `json:"edited_by,omitempty"`

	// Computed fields
	User *User `json:"user,omitempty"`
}

// Validate validates the comment fields.
func (c *Comment) Validate() error {
	if c.IdeaID <= 0 {
		return fmt.Errorf("idea_id is required")
	}
	if c.UserID <= 0 {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	return nil
}
