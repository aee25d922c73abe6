// Package state implements the idea status state machine for sprout.
package state

import (
	"fmt"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// TransitionType describes how a status change is requested.
type TransitionType string

const (
	TransitionTypeRespond   TransitionType = "respond"   // staff response with a regular status
	TransitionTypeDuplicate TransitionType = "duplicate" // staff marks the idea as a duplicate
)

// TransitionRule defines a valid status transition.
type TransitionRule struct {
	From         models.IdeaStatus
	To           models.IdeaStatus
	AllowedTypes []TransitionType
	Description  string
}

var respondOnly = []TransitionType{TransitionTypeRespond}

// validTransitions defines all valid status transitions.
// Re-responding with the current status is always allowed (text edits) and
// is not listed here.
var validTransitions = []TransitionRule{
	// open → *
	{From: models.IdeaOpen, To: models.IdeaPlanned, AllowedTypes: respondOnly, Description: "Idea planned"},
	{From: models.IdeaOpen, To: models.IdeaStarted, AllowedTypes: respondOnly, Description: "Work started"},
	{From: models.IdeaOpen, To: models.IdeaCompleted, AllowedTypes: respondOnly, Description: "Idea completed"},
	{From: models.IdeaOpen, To: models.IdeaDeclined, AllowedTypes: respondOnly, Description: "Idea declined"},
	{From: models.IdeaOpen, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},

	// planned → *
	{From: models.IdeaPlanned, To: models.IdeaOpen, AllowedTypes: respondOnly, Description: "Plan dropped"},
	{From: models.IdeaPlanned, To: models.IdeaStarted, AllowedTypes: respondOnly, Description: "Work started"},
	{From: models.IdeaPlanned, To: models.IdeaCompleted, AllowedTypes: respondOnly, Description: "Idea completed"},
	{From: models.IdeaPlanned, To: models.IdeaDeclined, AllowedTypes: respondOnly, Description: "Idea declined"},
	{From: models.IdeaPlanned, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},

	// started → *
	{From: models.IdeaStarted, To: models.IdeaOpen, AllowedTypes: respondOnly, Description: "Work stopped"},
	{From: models.IdeaStarted, To: models.IdeaPlanned, AllowedTypes: respondOnly, Description: "Work paused"},
	{From: models.IdeaStarted, To: models.IdeaCompleted, AllowedTypes: respondOnly, Description: "Idea completed"},
	{From: models.IdeaStarted, To: models.IdeaDeclined, AllowedTypes: respondOnly, Description: "Idea declined"},
	{From: models.IdeaStarted, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},

	// closed → reopen or move between closed statuses
	{From: models.IdeaCompleted, To: models.IdeaOpen, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaCompleted, To: models.IdeaPlanned, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaCompleted, To: models.IdeaStarted, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaCompleted, To: models.IdeaDeclined, AllowedTypes: respondOnly, Description: "Idea declined"},
	{From: models.IdeaCompleted, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},

	{From: models.IdeaDeclined, To: models.IdeaOpen, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaDeclined, To: models.IdeaPlanned, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaDeclined, To: models.IdeaStarted, AllowedTypes: respondOnly, Description: "Idea reopened"},
	{From: models.IdeaDeclined, To: models.IdeaCompleted, AllowedTypes: respondOnly, Description: "Idea completed"},
	{From: models.IdeaDeclined, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},

	// a duplicate is reopened by responding with a regular status
	{From: models.IdeaDuplicate, To: models.IdeaOpen, AllowedTypes: respondOnly, Description: "Duplicate reopened"},
	{From: models.IdeaDuplicate, To: models.IdeaPlanned, AllowedTypes: respondOnly, Description: "Duplicate reopened"},
	{From: models.IdeaDuplicate, To: models.IdeaStarted, AllowedTypes: respondOnly, Description: "Duplicate reopened"},
	{From: models.IdeaDuplicate, To: models.IdeaCompleted, AllowedTypes: respondOnly, Description: "Duplicate completed"},
	{From: models.IdeaDuplicate, To: models.IdeaDeclined, AllowedTypes: respondOnly, Description: "Duplicate declined"},
	{From: models.IdeaDuplicate, To: models.IdeaDeleted, AllowedTypes: respondOnly, Description: "Idea deleted"},
}

// every live status may be marked as a duplicate, including re-pointing an existing duplicate
func init() {
	for _, from := range []models.IdeaStatus{
		models.IdeaOpen, models.IdeaPlanned, models.IdeaStarted,
		models.IdeaCompleted, models.IdeaDeclined, models.IdeaDuplicate,
	} {
		validTransitions = append(validTransitions, TransitionRule{
			From:         from,
			To:           models.IdeaDuplicate,
			AllowedTypes: []TransitionType{TransitionTypeDuplicate},
			Description:  "Marked as duplicate",
		})
	}

	transitionRuleMap = make(map[string]*TransitionRule)
	for i := range validTransitions {
		rule := &validTransitions[i]
		transitionRuleMap[makeTransitionKey(rule.From, rule.To)] = rule
	}
}

// transitionRuleMap provides fast lookup of transition rules.
var transitionRuleMap map[string]*TransitionRule

func makeTransitionKey(from, to models.IdeaStatus) string {
	return string(from) + "->" + string(to)
}

// Machine provides state machine operations for ideas.
type Machine struct{}

// NewMachine creates a new state machine instance.
func NewMachine() *Machine {
	return &Machine{}
}

// GetTransitionRule returns the rule for a transition, or nil if invalid.
func (m *Machine) GetTransitionRule(from, to models.IdeaStatus) *TransitionRule {
	return transitionRuleMap[makeTransitionKey(from, to)]
}

// TypeFor returns the transition type that reaches status.
func TypeFor(to models.IdeaStatus) TransitionType {
	if to == models.IdeaDuplicate {
		return TransitionTypeDuplicate
	}
	return TransitionTypeRespond
}

// CanTransition checks if moving idea to the given status is valid.
// It returns nil if the transition is allowed, or an error explaining why not.
func (m *Machine) CanTransition(idea *models.Idea, to models.IdeaStatus, transType TransitionType) error {
	if idea == nil {
		return fmt.Errorf("idea is nil")
	}
	if !to.IsValid() {
		return fmt.Errorf("invalid status: %s", to)
	}

	from := idea.Status
	if from.IsTerminal() {
		return fmt.Errorf("idea is %s and cannot change status", from)
	}

	// Same status keeps the idea where it is; only the response text changes.
	if from == to && to != models.IdeaDuplicate {
		if transType != TransitionTypeRespond {
			return fmt.Errorf("transition type %s is not allowed for %s -> %s", transType, from, to)
		}
		return nil
	}

	rule := m.GetTransitionRule(from, to)
	if rule == nil {
		return fmt.Errorf("transition from %s to %s is not allowed", from, to)
	}

	for _, allowed := range rule.AllowedTypes {
		if allowed == transType {
			return nil
		}
	}
	return fmt.Errorf("transition type %s is not allowed for %s -> %s", transType, from, to)
}

// GetValidTransitions returns all valid transitions from the given status.
func (m *Machine) GetValidTransitions(from models.IdeaStatus) []TransitionRule {
	var transitions []TransitionRule
	for _, rule := range validTransitions {
		if rule.From == from {
			transitions = append(transitions, rule)
		}
	}
	return transitions
}

// ActionForTransition returns the Action used to log a transition.
func ActionForTransition(from, to models.IdeaStatus) models.Action {
	switch {
	case to == models.IdeaDuplicate:
		return models.ActionDuplicated
	case from == to:
		return models.ActionResponded
	default:
		return models.ActionStatusChanged
	}
}
