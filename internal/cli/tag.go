package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/diogenes-ai-code/sprout/internal/service"
	"github.com/spf13/cobra"
)

var (
	tagName     string
	tagColor    string
	tagNewColor string
	tagPrivate  bool
)

func init() {
	tagAddCmd.Flags().StringVarP(&tagColor, "color", "c", "CCCCCC", "Hex color without #")
	tagAddCmd.Flags().BoolVar(&tagPrivate, "private", false, "Only visible to staff")

	tagEditCmd.Flags().StringVarP(&tagName, "name", "n", "", "New name")
	tagEditCmd.Flags().StringVarP(&tagNewColor, "color", "c", "", "New hex color")
	tagEditCmd.Flags().BoolVar(&tagPrivate, "private", false, "Only visible to staff")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagEditCmd)
	tagCmd.AddCommand(tagDeleteCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagAssignCmd)
	tagCmd.AddCommand(tagUnassignCmd)
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		tag, err := s.tags().Add(service.TagInput{Name: args[0], Color: tagColor, IsPublic: !tagPrivate}, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(tag)
		}
		OutputLine("Created tag %s (%s)", tag.Name, tag.Slug)
		return nil
	},
}

var tagEditCmd = &cobra.Command{
	Use:   "edit <slug>",
	Short: "Rename, recolor or change the visibility of a tag (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		tags, err := s.tags().List(s.user)
		if err != nil {
			return err
		}
		input := service.TagInput{}
		found := false
		for _, t := range tags {
			if t.Slug == args[0] {
				input = service.TagInput{Name: t.Name, Color: t.Color, IsPublic: t.IsPublic}
				found = true
				break
			}
		}
		if found {
			if cmd.Flags().Changed("name") {
				input.Name = tagName
			}
			if cmd.Flags().Changed("color") {
				input.Color = tagNewColor
			}
			if cmd.Flags().Changed("private") {
				input.IsPublic = !tagPrivate
			}
		}

		tag, err := s.tags().Edit(args[0], input, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(tag)
		}
		OutputLine("Updated tag %s (%s)", tag.Name, tag.Slug)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a tag and remove it from all ideas (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.tags().Delete(args[0], s.user); err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(map[string]string{"deleted": args[0]})
		}
		OutputLine("Deleted tag %s", args[0])
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		tags, err := s.tags().List(s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(tags)
		}
		if len(tags) == 0 {
			OutputLine("No tags.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tCOLOR\tVISIBILITY")
		for _, t := range tags {
			visibility := "public"
			if !t.IsPublic {
				visibility = "private"
			}
			fmt.Fprintf(w, "%s\t%s\t#%s\t%s\n", t.Slug, t.Name, t.Color, visibility)
		}
		return w.Flush()
	},
}

var tagAssignCmd = &cobra.Command{
	Use:   "assign <slug> <idea-number>",
	Short: "Tag an idea (staff only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAssignment(args[0], args[1], true)
	},
}

var tagUnassignCmd = &cobra.Command{
	Use:   "unassign <slug> <idea-number>",
	Short: "Remove a tag from an idea (staff only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAssignment(args[0], args[1], false)
	},
}

func runTagAssignment(slug, ref string, assign bool) error {
	number, err := parseIdeaArg(ref)
	if err != nil {
		return err
	}
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	if assign {
		err = s.tags().Assign(slug, number, s.user)
	} else {
		err = s.tags().Unassign(slug, number, s.user)
	}
	if err != nil {
		return err
	}
	if IsJSON() {
		return printJSON(map[string]interface{}{"tag": slug, "idea": number, "assigned": assign})
	}
	if assign {
		OutputLine("Tagged #%d with %s", number, slug)
	} else {
		OutputLine("Removed %s from #%d", slug, number)
	}
	return nil
}
