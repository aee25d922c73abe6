package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/diogenes-ai-code/sprout/internal/backup"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	backupCmd.AddCommand(backupListCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Take a database snapshot now",
	Long: `Take a snapshot of the board database and rotate older snapshots.

Snapshots are also taken automatically before commands when the newest one
is older than backup.interval_hours (see 'sprout config show').`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeDB, err := openBackupManager()
		if err != nil {
			return err
		}
		defer closeDB()

		snap, err := mgr.Backup(context.Background())
		if err != nil {
			return ErrDatabase(err, "backup failed")
		}
		if IsJSON() {
			return printJSON(snap)
		}
		OutputLine("Wrote %s (%s)", snap.Path, humanize.Bytes(uint64(snap.Size)))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List database snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeDB, err := openBackupManager()
		if err != nil {
			return err
		}
		defer closeDB()

		snaps, err := mgr.List()
		if err != nil {
			return err
		}
		if IsJSON() {
			if snaps == nil {
				snaps = []backup.Snapshot{}
			}
			return printJSON(snaps)
		}
		if len(snaps) == 0 {
			OutputLine("No backups in %s", mgr.Dir())
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tSIZE\tTAKEN\tPATH")
		for _, s := range snaps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Number, humanize.Bytes(uint64(s.Size)), formatAge(s.ModTime), s.Path)
		}
		return w.Flush()
	},
}

func openBackupManager() (*backup.Manager, func(), error) {
	s, err := openSession(false)
	if err != nil {
		return nil, nil, err
	}
	mgr := backup.NewManager(s.db.DB, s.db.Path(), GetConfig().Backup)
	return mgr, func() { s.Close() }, nil
}
