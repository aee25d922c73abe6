// Package models defines the domain models for sprout.
package models

import (
	"fmt"
	"strings"
)

// IdeaStatus represents the state of an idea in its lifecycle.
//   - open: newly submitted, accepting support
//   - planned, started: staff has committed to it
//   - completed, declined, duplicate: closed, supporters are frozen
//   - deleted: removed, hidden from every query
type IdeaStatus string

const (
	IdeaOpen      IdeaStatus = "open"
	IdeaPlanned   IdeaStatus = "planned"
	IdeaStarted   IdeaStatus = "started"
	IdeaCompleted IdeaStatus = "completed"
	IdeaDeclined  IdeaStatus = "declined"
	IdeaDuplicate IdeaStatus = "duplicate"
	IdeaDeleted   IdeaStatus = "deleted"
)

// AllIdeaStatuses lists every status in display order.
var AllIdeaStatuses = []IdeaStatus{
	IdeaOpen, IdeaPlanned, IdeaStarted, IdeaCompleted, IdeaDeclined, IdeaDuplicate, IdeaDeleted,
}

// IsValid returns true if the status is a valid idea status.
func (s IdeaStatus) IsValid() bool {
	switch s {
	case IdeaOpen, IdeaPlanned, IdeaStarted, IdeaCompleted, IdeaDeclined, IdeaDuplicate, IdeaDeleted:
		return true
	}
	return false
}

// IsClosed returns true if supporters can no longer be added or removed.
func (s IdeaStatus) IsClosed() bool {
	return s == IdeaCompleted || s == IdeaDeclined || s == IdeaDuplicate
}

// IsTerminal returns true if no further transition is allowed.
func (s IdeaStatus) IsTerminal() bool {
	return s == IdeaDeleted
}

// Title returns the display name of the status.
func (s IdeaStatus) Title() string {
	switch s {
	case IdeaOpen:
		return "Open"
	case IdeaPlanned:
		return "Planned"
	case IdeaStarted:
		return "Started"
	case IdeaCompleted:
		return "Completed"
	case IdeaDeclined:
		return "Declined"
	case IdeaDuplicate:
		return "Duplicate"
	case IdeaDeleted:
		return "Deleted"
	}
	return string(s)
}

// ParseIdeaStatus parses a status name, case-insensitively.
func ParseIdeaStatus(s string) (IdeaStatus, error) {
	status := IdeaStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %q (valid: %s)", s, joinStatuses(AllIdeaStatuses))
	}
	return status, nil
}

func joinStatuses(statuses []IdeaStatus) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Role represents a user's permission level.
type Role string

const (
	RoleVisitor       Role = "visitor"
	RoleCollaborator  Role = "collaborator"
	RoleAdministrator Role = "administrator"
)

// IsValid returns true if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleVisitor, RoleCollaborator, RoleAdministrator:
		return true
	}
	return false
}

// IsStaff returns true for collaborators and administrators.
func (r Role) IsStaff() bool {
	return r == RoleCollaborator || r == RoleAdministrator
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %q (valid: visitor, collaborator, administrator)", s)
	}
	return role, nil
}

// ListView selects how an idea list is ordered.
type ListView string

const (
	ViewRecent        ListView = "recent"
	ViewMostWanted    ListView = "most-wanted"
	ViewTrending      ListView = "trending"
	ViewMostDiscussed ListView = "most-discussed"
)

// IsValid returns true if the view is known.
func (v ListView) IsValid() bool {
	switch v {
	case ViewRecent, ViewMostWanted, ViewTrending, ViewMostDiscussed:
		return true
	}
	return false
}

// ParseListView parses a view name. Empty means trending.
func ParseListView(s string) (ListView, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewTrending, nil
	}
	view := ListView(s)
	if !view.IsValid() {
		return "", fmt.Errorf("invalid view: %q (valid: recent, most-wanted, trending, most-discussed)", s)
	}
	return view, nil
}

// Action represents the type of action recorded in an idea's activity log.
type Action string

const (
	ActionCreated       Action = "created"
	ActionEdited        Action = "edited"
	ActionResponded     Action = "responded"
	ActionStatusChanged Action = "status_changed"
	ActionDuplicated    Action = "duplicated"
	ActionSupported     Action = "supported"
	ActionUnsupported   Action = "unsupported"
	ActionCommented     Action = "commented"
	ActionTagged        Action = "tagged"
	ActionUntagged      Action = "untagged"
)

// IsValid returns true if the action is valid.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionEdited, ActionResponded, ActionStatusChanged, ActionDuplicated,
		ActionSupported, ActionUnsupported, ActionCommented, ActionTagged, ActionUntagged:
		return true
	}
	return false
}
