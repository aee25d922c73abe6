package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// now is the clock used for relative ages; tests pin it.
var now = time.Now

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

var statusColors = map[models.IdeaStatus]color.Attribute{
	models.IdeaOpen:      color.FgBlue,
	models.IdeaPlanned:   color.FgCyan,
	models.IdeaStarted:   color.FgYellow,
	models.IdeaCompleted: color.FgGreen,
	models.IdeaDeclined:  color.FgRed,
	models.IdeaDuplicate: color.FgMagenta,
	models.IdeaDeleted:   color.FgHiBlack,
}

// useColor reports whether human output may be colored.
func useColor() bool {
	if IsNoColor() || IsJSON() {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// colorize wraps s in the given attributes when color is enabled.
func colorize(s string, attrs ...color.Attribute) string {
	if !useColor() {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// statusLabel renders an idea status as a colored title.
func statusLabel(s models.IdeaStatus) string {
	attr, ok := statusColors[s]
	if !ok {
		return s.Title()
	}
	return colorize(s.Title(), attr, color.Bold)
}

// terminalWidth returns the width of stdout, or defaultWidth.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// formatDate renders t in the configured display timezone.
func formatDate(t time.Time) string {
	loc, err := GetConfig().Location()
	if err != nil {
		loc = time.Local
	}
	return common.FormatDate(t.In(loc))
}

// formatAge renders how long ago t happened.
func formatAge(t time.Time) string {
	return common.TimeSince(now(), t)
}

// supporters renders a supporter count like "1,204 supporters".
func supporters(n int) string {
	if n == 1 {
		return "1 supporter"
	}
	return humanize.Comma(int64(n)) + " supporters"
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// indent prefixes every line of s with pad.
func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
