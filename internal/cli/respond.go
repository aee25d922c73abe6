package cli

import (
	"github.com/diogenes-ai-code/sprout/internal/service"
	"github.com/spf13/cobra"
)

var (
	respondStatus   string
	respondText     string
	respondOriginal string
)

func init() {
	ideaRespondCmd.Flags().StringVarP(&respondStatus, "status", "s", "", "New status: open, planned, started, completed, declined, duplicate, deleted")
	ideaRespondCmd.Flags().StringVarP(&respondText, "text", "t", "", "Response text (Markdown)")
	ideaRespondCmd.Flags().StringVarP(&respondOriginal, "original", "o", "", "Original idea number when marking as duplicate")
	_ = ideaRespondCmd.MarkFlagRequired("status")

	ideaCmd.AddCommand(ideaRespondCmd)
}

var ideaRespondCmd = &cobra.Command{
	Use:   "respond <number>",
	Short: "Respond to an idea as staff",
	Long: `Respond to an idea with a new status and an optional text.
Only collaborators and administrators can respond.

Responding again with the same status only edits the text; the response
date is kept. Marking an idea as duplicate moves its supporters to the
original idea.

Examples:
  sprout idea respond 12 --status planned --text "Scheduled for Q3"
  sprout idea respond 14 --status duplicate --original 12
  sprout idea respond 9 --status deleted`,
	Args: cobra.ExactArgs(1),
	RunE: runRespond,
}

func runRespond(cmd *cobra.Command, args []string) error {
	number, err := parseIdeaArg(args[0])
	if err != nil {
		return err
	}
	original := 0
	if respondOriginal != "" {
		if original, err = parseIdeaArg(respondOriginal); err != nil {
			return err
		}
	}
	input, err := service.ParseRespondInput(respondStatus, respondText, original)
	if err != nil {
		return err
	}

	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	idea, err := s.responses().Respond(number, input, s.user)
	if err != nil {
		return err
	}

	if IsJSON() {
		return printJSON(newIdeaOutput(idea))
	}
	if idea.Response != nil && idea.Response.Original != nil {
		OutputLine("Marked #%d as duplicate of #%d", idea.Number, idea.Response.Original.Number)
		return nil
	}
	OutputLine("Idea #%d is now %s", idea.Number, statusLabel(idea.Status))
	return nil
}
