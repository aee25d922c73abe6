package models

import (
	"fmt"
	"regexp"
	"strings"
)

var colorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Tag labels ideas. Private tags are only visible to staff.
type Tag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Color    string `json:"color"`
	IsPublic bool   `json:"is_public"`
}

// Validate validates the tag fields.
func (t *Tag) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	if len(t.Name) > 30 {
		return fmt.Errorf("tag name must be 30 characters or less")
	}
	if !colorPattern.MatchString(t.Color) {
		return fmt.Errorf("invalid color %q (expected 6 hex digits)", t.Color)
	}
	return nil
}
