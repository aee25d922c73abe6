package cli

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/diogenes-ai-code/sprout/internal/config"
	serrors "github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long title", 10, "this is..."},
		{"café au lait", 6, "caf..."},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.s, tt.max))
		})
	}
}

func TestSupporters(t *testing.T) {
	assert.Equal(t, "0 supporters", supporters(0))
	assert.Equal(t, "1 supporter", supporters(1))
	assert.Equal(t, "1,204 supporters", supporters(1204))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", indent("a\nb\n", "  "))
}

func TestFormatDateUsesConfiguredTimezone(t *testing.T) {
	origConfig := globalConfig
	defer func() { globalConfig = origConfig }()

	ts := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)

	globalConfig = &config.Config{Timezone: "UTC"}
	assert.Equal(t, "March 5, 2021 · 09:05", formatDate(ts))

	globalConfig = &config.Config{Timezone: "Asia/Tokyo"}
	assert.Equal(t, "March 5, 2021 · 18:05", formatDate(ts))
}

func TestFormatAge(t *testing.T) {
	origNow := now
	defer func() { now = origNow }()

	ref := time.Date(2021, time.March, 5, 9, 5, 0, 0, time.UTC)
	now = func() time.Time { return ref }

	assert.Equal(t, "less than a minute ago", formatAge(ref))
	assert.Equal(t, "about 2 hours ago", formatAge(ref.Add(-2*time.Hour)))
	assert.Equal(t, "a day ago", formatAge(ref.Add(-30*time.Hour)))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", fmt.Errorf("boom"), ExitGeneralError},
		{"invalid args", ErrInvalidArgs("bad"), ExitInvalidArgs},
		{"not found", serrors.NotFound("missing"), ExitNotFound},
		{"state", serrors.StateError("nope"), ExitStateError},
		{"database", ErrDatabase(fmt.Errorf("disk"), "failed"), ExitDBError},
		{"conflict", serrors.Conflict("taken"), ExitConflict},
		{"forbidden", serrors.Forbidden("staff only"), ExitForbidden},
		{"wrapped", fmt.Errorf("ctx: %w", serrors.NotFound("missing")), ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	assert.Equal(t, "Error: boom", FormatErrorMessage(fmt.Errorf("boom")))

	err := serrors.InvalidField("originalNumber", "original idea not found")
	assert.Equal(t, "Error: originalNumber: original idea not found", FormatErrorMessage(err))

	err = serrors.NotFound("idea #9 not found").WithSuggestion(SuggestListIdeas)
	assert.Equal(t, "Error: idea #9 not found\n\nSuggestion: "+SuggestListIdeas, FormatErrorMessage(err))
}
