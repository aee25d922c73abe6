package cli

import (
	"fmt"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/diogenes-ai-code/sprout/internal/service"
	"github.com/spf13/cobra"
)

var statusActivity int

func init() {
	statusCmd.Flags().IntVarP(&statusActivity, "activity", "a", 10, "Number of recent activity entries")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quick board overview",
	Long: `Display an overview of the board.

Shows:
  - Idea counts per status
  - Recent activity

Examples:
  sprout status
  sprout status --activity 25`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := service.NewStatusService(s.db.DB).GetSummary(statusActivity)
	if err != nil {
		return err
	}

	if IsJSON() {
		return printJSON(summary)
	}

	fmt.Println("Sprout Status")
	fmt.Println(strings.Repeat("=", 65))
	fmt.Println()

	rows := []struct {
		status models.IdeaStatus
		count  int
	}{
		{models.IdeaOpen, summary.Open},
		{models.IdeaPlanned, summary.Planned},
		{models.IdeaStarted, summary.Started},
		{models.IdeaCompleted, summary.Completed},
		{models.IdeaDeclined, summary.Declined},
		{models.IdeaDuplicate, summary.Duplicate},
	}
	for _, r := range rows {
		label := statusLabel(r.status) + ":"
		pad := 22 - len(r.status.Title()) - 1
		fmt.Printf("%s%s%d\n", label, strings.Repeat(" ", pad), r.count)
	}
	fmt.Printf("Total:%s%d\n", strings.Repeat(" ", 16), summary.Total)
	fmt.Println()

	if len(summary.RecentActivity) > 0 {
		fmt.Println("Recent activity:")
		for _, a := range summary.RecentActivity {
			line := fmt.Sprintf("  • #%d %s", a.IdeaNumber, a.Action)
			if a.Summary != "" {
				line += " " + a.Summary
			}
			if a.UserName != "" {
				line += " by " + a.UserName
			}
			fmt.Printf("%s (%s)\n", line, a.Age)
		}
	}
	return nil
}
