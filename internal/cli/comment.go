package cli

import (
	"fmt"
	"strconv"

	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentListCmd)
	rootCmd.AddCommand(commentCmd)
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Discuss ideas",
}

type commentOutput struct {
	*models.Comment
	CreatedDisplay string `json:"created_display"`
	CreatedAgo     string `json:"created_ago"`
}

func newCommentOutputs(comments []*models.Comment) []commentOutput {
	out := make([]commentOutput, len(comments))
	for i, c := range comments {
		out[i] = commentOutput{Comment: c, CreatedDisplay: formatDate(c.CreatedAt), CreatedAgo: formatAge(c.CreatedAt)}
	}
	return out
}

func printComment(c *models.Comment) {
	author := "unknown"
	if c.User != nil {
		author = c.User.Name
	}
	edited := ""
	if c.EditedAt != nil {
		edited = " (edited)"
	}
	fmt.Printf("\n%s %s%s  %s\n", colorize(author, color.Bold), colorize(formatAge(c.CreatedAt), color.FgHiBlack), edited,
		colorize(fmt.Sprintf("[%d]", c.ID), color.FgHiBlack))
	fmt.Println(indent(c.Content, "  "))
}

var commentAddCmd = &cobra.Command{
	Use:   "add <idea-number> <text>",
	Short: "Comment on an idea",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseIdeaArg(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := s.ideas().AddComment(number, args[1], s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(newCommentOutputs([]*models.Comment{c})[0])
		}
		OutputLine("Added comment %d to #%d", c.ID, number)
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> <text>",
	Short: "Edit a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return ErrInvalidArgs("invalid comment id: %s", args[0])
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := s.ideas().EditComment(id, args[1], s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(newCommentOutputs([]*models.Comment{c})[0])
		}
		OutputLine("Updated comment %d", c.ID)
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <idea-number>",
	Short: "List the comments of an idea",
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

		comments, err := s.ideas().Comments(number, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(newCommentOutputs(comments))
		}
		if len(comments) == 0 {
			OutputLine("No comments on #%d.", number)
			return nil
		}
		for _, c := range comments {
			printComment(c)
		}
		return nil
	},
}
