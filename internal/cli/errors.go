package cli

import (
	"fmt"
	"strings"

	serrors "github.com/diogenes-ai-code/sprout/internal/errors"
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return serrors.GetCLIExitCode(err)
}

// FormatErrorMessage returns the error with the offending field and a
// suggestion when the error carries them.
func FormatErrorMessage(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")

	e, ok := serrors.As(err)
	if !ok {
		b.WriteString(err.Error())
		return b.String()
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(err.Error())
	if e.Suggestion != "" {
		b.WriteString("\n\nSuggestion: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// ErrInvalidArgs creates an error for invalid arguments (exit code 2)
func ErrInvalidArgs(format string, args ...interface{}) error {
	return serrors.InvalidArgs(format, args...)
}

// ErrDatabase creates an error for database operations (exit code 5)
func ErrDatabase(cause error, format string, args ...interface{}) error {
	return serrors.WrapInternal(cause, format, args...)
}

// Common suggestions
const (
	SuggestRunInit   = "Run 'sprout init' to create a new board."
	SuggestListIdeas = "Run 'sprout idea list' to see available ideas."
	SuggestSetUser   = "Pass --as <email> or set default_user in ~/.sprout/config.toml."
	SuggestAddUser   = "Run 'sprout user add <name> <email>' to register a user."
)
