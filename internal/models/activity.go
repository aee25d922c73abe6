package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Activity is an entry in an idea's history.
type Activity struct {
	ID        int64     `json:"id"`
	IdeaID    int64     `json:"idea_id"`
	Action    Action    `json:"action"`
	UserID    *int64    `json:"user_id,omitempty"`
	Details   string    `json:"details,omitempty"` // JSON string
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Computed fields
	IdeaNumber int    `json:"idea_number,omitempty"`
	UserName   string `json:"user_name,omitempty"`
}

// Validate validates the activity entry.
func (a *Activity) Validate() error {
	if a.IdeaID <= 0 {
		return fmt.Errorf("idea_id is required")
	}
	if !a.Action.IsValid() {
		return fmt.Errorf("invalid action: %s", a.Action)
	}
	return nil
}

// GetDetails parses the JSON details into a map.
func (a *Activity) GetDetails() (map[string]interface{}, error) {
	if a.Details == "" {
		return nil, nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal([]byte(a.Details), &details); err != nil {
		return nil, fmt.Errorf("failed to parse details: %w", err)
	}
	return details, nil
}

// SetDetails sets the details from a map.
func (a *Activity) SetDetails(details map[string]interface{}) error {
	if details == nil {
		a.Details = ""
		return nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}
	a.Details = string(data)
	return nil
}
