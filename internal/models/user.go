package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is a person who submits, supports or responds to ideas.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsStaff returns true if the user may respond to ideas and see private tags.
func (u *User) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// Validate validates the user fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(u.Name) > 100 {
		return fmt.Errorf("name must be 100 characters or less")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email: %q", u.Email)
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}
