package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/spf13/cobra"
)

var userRole string

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", "visitor", "Role: visitor, collaborator or administrator")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRoleCmd)
	userCmd.AddCommand(userWhoamiCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage board users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Register a user",
	Long: `Register a user. The first user of a board always becomes its administrator.
Only administrators (via --as) can register collaborators or administrators.

Examples:
  sprout user add "Jon Snow" jon.snow@example.com
  sprout user add "Sansa Stark" sansa@example.com --role collaborator --as jon.snow@example.com`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := models.ParseRole(userRole)
		if err != nil {
			return ErrInvalidArgs("%v", err)
		}
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := s.users().Register(args[0], args[1], role, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(u)
		}
		OutputLine("Registered %s <%s> as %s", u.Name, u.Email, u.Role)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		users, err := s.users().List()
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(users)
		}
		if len(users) == 0 {
			OutputLine("No users. %s", SuggestAddUser)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tJOINED")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, formatAge(u.CreatedAt))
		}
		return w.Flush()
	},
}

var userRoleCmd = &cobra.Command{
	Use:   "role <email> <role>",
	Short: "Change a user's role (administrators only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := models.ParseRole(args[1])
		if err != nil {
			return ErrInvalidArgs("%v", err)
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := s.users().SetRole(args[0], role, s.user)
		if err != nil {
			return err
		}
		if IsJSON() {
			return printJSON(u)
		}
		OutputLine("%s is now %s", u.Email, u.Role)
		return nil
	},
}

var userWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user commands act as",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()
		if IsJSON() {
			return printJSON(s.user)
		}
		OutputLine("%s <%s> (%s)", s.user.Name, s.user.Email, s.user.Role)
		return nil
	},
}
