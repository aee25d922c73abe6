package cli

import (
	"fmt"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Idea command flags
var (
	ideaDescription string
	ideaTitle       string
	ideaView        string
	ideaStatuses    []string
	ideaTags        []string
	ideaLimit       int
	historyLimit    int
)

func init() {
	ideaAddCmd.Flags().StringVarP(&ideaDescription, "description", "d", "", "Longer description (Markdown)")

	ideaEditCmd.Flags().StringVarP(&ideaTitle, "title", "t", "", "New title")
	ideaEditCmd.Flags().StringVarP(&ideaDescription, "description", "d", "", "New description")

	for _, c := range []*cobra.Command{ideaListCmd, ideaSearchCmd} {
		c.Flags().StringVar(&ideaView, "view", "trending", "Order: trending, recent, most-wanted, most-discussed")
		c.Flags().StringSliceVarP(&ideaStatuses, "status", "s", nil, "Filter by status (repeatable; default open, planned, started)")
		c.Flags().StringSliceVar(&ideaTags, "tag", nil, "Only ideas with this tag slug (repeatable)")
		c.Flags().IntVarP(&ideaLimit, "limit", "l", 30, "Maximum number of ideas (0 for all)")
	}

	ideaHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of entries to show (0 for all)")

	ideaCmd.AddCommand(ideaAddCmd)
	ideaCmd.AddCommand(ideaListCmd)
	ideaCmd.AddCommand(ideaSearchCmd)
	ideaCmd.AddCommand(ideaShowCmd)
	ideaCmd.AddCommand(ideaEditCmd)
	ideaCmd.AddCommand(ideaSupportCmd)
	ideaCmd.AddCommand(ideaUnsupportCmd)
	ideaCmd.AddCommand(ideaHistoryCmd)
	rootCmd.AddCommand(ideaCmd)
}

var ideaCmd = &cobra.Command{
	Use:     "idea",
	Aliases: []string{"ideas"},
	Short:   "Submit, browse and support ideas",
}

// ideaOutput is the JSON shape of an idea with display fields.
type ideaOutput struct {
	*models.Idea
	CreatedDisplay   string `json:"created_display"`
	CreatedAgo       string `json:"created_ago"`
	RespondedDisplay string `json:"responded_display,omitempty"`
	RespondedAgo     string `json:"responded_ago,omitempty"`
}

func newIdeaOutput(idea *models.Idea) ideaOutput {
	out := ideaOutput{
		Idea:           idea,
		CreatedDisplay: formatDate(idea.CreatedAt),
		CreatedAgo:     formatAge(idea.CreatedAt),
	}
	if idea.Response != nil {
		out.RespondedDisplay = formatDate(idea.Response.RespondedAt)
		out.RespondedAgo = formatAge(idea.Response.RespondedAt)
	}
	return out
}

func parseIdeaArg(arg string) (int, error) {
	n, err := common.ParseIdeaNumber(arg)
	if err != nil {
		return 0, ErrInvalidArgs("%v", err)
	}
	return n, nil
}

var ideaAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Submit a new idea",
	Long: `Submit a new idea. You automatically support your own ideas.

Examples:
  sprout idea add "Add dark mode to the dashboard"
  sprout idea add "Export reports to CSV" -d "Our finance team needs this monthly"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		idea, err := s.ideas().Create(args[0], ideaDescription, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(newIdeaOutput(idea))
		}
		OutputLine("Created idea #%d: %s", idea.Number, idea.Title)
		return nil
	},
}

var ideaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas",
	Long: `List ideas. By default only open, planned and started ideas are shown,
ordered by trending.

Examples:
  sprout idea list
  sprout idea list --view most-wanted
  sprout idea list --status completed --status declined
  sprout idea list --tag bug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdeaList("")
	},
}

var ideaSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search ideas by title and description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdeaList(strings.Join(args, " "))
	},
}

func runIdeaList(query string) error {
	view, err := models.ParseListView(ideaView)
	if err != nil {
		return ErrInvalidArgs("%v", err)
	}
	filter := db.IdeaFilter{Query: query, View: view, Tags: ideaTags, Limit: ideaLimit}
	for _, raw := range ideaStatuses {
		st, err := models.ParseIdeaStatus(raw)
		if err != nil {
			return ErrInvalidArgs("%v", err)
		}
		filter.Statuses = append(filter.Statuses, st)
	}

	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	ideas, err := s.ideas().List(filter, s.user)
	if err != nil {
		return err
	}

	if IsJSON() {
		out := make([]ideaOutput, len(ideas))
		for i, idea := range ideas {
			out[i] = newIdeaOutput(idea)
		}
		return printJSON(out)
	}

	if len(ideas) == 0 {
		OutputLine("No ideas found.")
		return nil
	}

	width := terminalWidth()
	for _, idea := range ideas {
		prefix := fmt.Sprintf("#%-4d ", idea.Number)
		meta := fmt.Sprintf("  %s · %s · %s", idea.Status.Title(), supporters(idea.TotalSupporters), formatAge(idea.CreatedAt))
		room := width - len(prefix) - len([]rune(meta))
		if room < 20 {
			room = 20
		}
		title := truncate(idea.Title, room)
		Output("%s%s%s\n", colorize(prefix, color.Bold), title, colorize(meta, color.FgHiBlack))
	}
	return nil
}

var ideaShowCmd = &cobra.Command{
	Use:   "show <number>",
	Short: "Show an idea with its response and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseIdeaArg(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		idea, err := s.ideas().Get(number, s.user)
		if err != nil {
			return err
		}
		comments, err := s.ideas().Comments(number, s.user)
		if err != nil {
			return err
		}

		if IsJSON() {
			out := struct {
				ideaOutput
				Comments []commentOutput `json:"comments"`
			}{ideaOutput: newIdeaOutput(idea), Comments: newCommentOutputs(comments)}
			return printJSON(out)
		}

		printIdea(idea)
		if len(comments) > 0 {
			fmt.Println()
			fmt.Println(colorize(fmt.Sprintf("Comments (%d)", len(comments)), color.Bold))
			for _, c := range comments {
				printComment(c)
			}
		}
		return nil
	},
}

func printIdea(idea *models.Idea) {
	fmt.Printf("%s %s\n", colorize(fmt.Sprintf("#%d", idea.Number), color.Bold), colorize(idea.Title, color.Bold))
	fmt.Println(strings.Repeat("=", 65))

	author := ""
	if idea.User != nil {
		author = idea.User.Name
	}
	fmt.Printf("Status:      %s\n", statusLabel(idea.Status))
	fmt.Printf("Supporters:  %s", supporters(idea.TotalSupporters))
	if idea.ViewerSupport {
		fmt.Print(" (including you)")
	}
	fmt.Println()
	fmt.Printf("Submitted:   %s by %s (%s)\n", formatDate(idea.CreatedAt), author, formatAge(idea.CreatedAt))
	if len(idea.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(idea.Tags, ", "))
	}

	if idea.Description != "" {
		fmt.Println()
		fmt.Println(idea.Description)
	}

	if r := idea.Response; r != nil {
		fmt.Println()
		responder := "staff"
		if r.User != nil {
			responder = r.User.Name
		}
		fmt.Printf("%s %s · %s\n", colorize("Response", color.Bold), responder, formatDate(r.RespondedAt))
		if r.Original != nil {
			fmt.Printf("  Duplicate of #%d: %s (%s)\n", r.Original.Number, r.Original.Title, r.Original.Status.Title())
		}
		if r.Text != "" {
			fmt.Println(indent(r.Text, "  "))
		}
	}
}

var ideaEditCmd = &cobra.Command{
	Use:   "edit <number>",
	Short: "Edit an idea's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseIdeaArg(args[0])
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
			return ErrInvalidArgs("nothing to change (use --title or --description)")
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		current, err := s.ideas().Get(number, s.user)
		if err != nil {
			return err
		}
		title, desc := current.Title, current.Description
		if cmd.Flags().Changed("title") {
			title = ideaTitle
		}
		if cmd.Flags().Changed("description") {
			desc = ideaDescription
		}

		idea, err := s.ideas().Edit(number, title, desc, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(newIdeaOutput(idea))
		}
		OutputLine("Updated idea #%d: %s", idea.Number, idea.Title)
		return nil
	},
}

var ideaSupportCmd = &cobra.Command{
	Use:   "support <number>",
	Short: "Support an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleSupport(args[0], true)
	},
}

var ideaUnsupportCmd = &cobra.Command{
	Use:   "unsupport <number>",
	Short: "Withdraw your support from an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleSupport(args[0], false)
	},
}

func runToggleSupport(arg string, add bool) error {
	number, err := parseIdeaArg(arg)
	if err != nil {
		return err
	}
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	var idea *models.Idea
	if add {
		idea, err = s.ideas().Support(number, s.user)
	} else {
		idea, err = s.ideas().Unsupport(number, s.user)
	}
	if err != nil {
		return err
	}
	if IsJSON() {
		return printJSON(newIdeaOutput(idea))
	}
	switch {
	case !idea.CanBeSupported():
		OutputLine("Idea #%d is %s; support is closed (%s)", idea.Number, idea.Status, supporters(idea.TotalSupporters))
	case idea.ViewerSupport:
		OutputLine("Supporting #%d (%s)", idea.Number, supporters(idea.TotalSupporters))
	default:
		OutputLine("Not supporting #%d (%s)", idea.Number, supporters(idea.TotalSupporters))
	}
	return nil
}

var ideaHistoryCmd = &cobra.Command{
	Use:   "history <number>",
	Short: "Show the activity of an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseIdeaArg(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ideas().History(number, s.user, historyLimit)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			OutputLine("No activity for #%d.", number)
			return nil
		}
		for _, a := range entries {
			who := a.UserName
			if who == "" {
				who = "system"
			}
			line := fmt.Sprintf("%-15s %-16s %s", formatAge(a.CreatedAt), a.Action, who)
			if a.Summary != "" {
				line += ": " + a.Summary
			}
			OutputLine("%s", line)
		}
		return nil
	},
}
