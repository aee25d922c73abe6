package state

import (
	"fmt"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// ReferenceChecker reports whether other ideas point at an idea as their original.
type ReferenceChecker interface {
	IsReferenced(ideaID int64) (bool, error)
}

// Logic applies the rules that need storage lookups on top of the Machine.
type Logic struct {
	machine *Machine
	refs    ReferenceChecker
}

// NewLogic creates a new Logic instance with the given dependencies.
func NewLogic(refs ReferenceChecker) *Logic {
	return &Logic{machine: NewMachine(), refs: refs}
}

// CheckTransition validates a status change for idea.
//
// An idea that other ideas reference as their original cannot itself be
// marked duplicate or deleted, since that would orphan the references.
func (l *Logic) CheckTransition(idea *models.Idea, to models.IdeaStatus) error {
	if err := l.machine.CanTransition(idea, to, TypeFor(to)); err != nil {
		return err
	}
	if to != models.IdeaDuplicate && to != models.IdeaDeleted {
		return nil
	}
	if l.refs == nil {
		return nil
	}
	referenced, err := l.refs.IsReferenced(idea.ID)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("idea #%d is referenced as the original of other ideas and cannot be marked %s", idea.Number, to)
	}
	return nil
}

// CheckDuplicateTarget validates the original an idea is about to be merged into.
func (l *Logic) CheckDuplicateTarget(idea, original *models.Idea) error {
	if original == nil {
		return fmt.Errorf("original idea not found")
	}
	if original.ID == idea.ID {
		return fmt.Errorf("an idea cannot be a duplicate of itself")
	}
	if original.Status == models.IdeaDuplicate {
		return fmt.Errorf("idea #%d is itself a duplicate", original.Number)
	}
	return nil
}
