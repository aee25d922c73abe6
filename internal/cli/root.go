package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/diogenes-ai-code/sprout/internal/backup"
	"github.com/diogenes-ai-code/sprout/internal/config"
	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/spf13/cobra"
)

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global flags
var (
	dbPath  string
	jsonOut bool
	quiet   bool
	verbose bool
	noColor bool
	asUser  string
)

// Global configuration (loaded once at startup)
var globalConfig *config.Config

// log receives diagnostics on stderr. Human output goes through Output.
var log = logger.NewNope()

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitNotFound     = 3
	ExitStateError   = 4
	ExitDBError      = 5
	ExitConflict     = 6
	ExitForbidden    = 7
)

// skipBackupCommands lists commands that should not trigger automatic backup.
// These are either commands that don't need a database, or that initialize it.
var skipBackupCommands = map[string]bool{
	"help":    true,
	"version": true,
	"init":    true,
	"backup":  true,
	"config":  true,
}

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Local-first feedback board for collecting and prioritizing ideas",
	Long: `Sprout is a feedback board that lives in a single SQLite file.

Users submit ideas, support the ones they want and discuss them in comments.
Collaborators and administrators respond with a status (planned, started,
completed, declined), merge duplicates and organize ideas with tags.

Use "sprout init" to initialize a new board.
Use "sprout --help" to see all available commands.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return runAutoBackup(cmd)
	},
}

func init() {
	var err error
	globalConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		globalConfig = config.DefaultConfig()
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database file (default ~/.sprout/sprout.db)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&asUser, "as", "", "Email of the user to act as (default from config)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("sprout %s (%s, %s)\n", Version, shortCommit(), shortDate()))

	rootCmd.AddCommand(versionCmd)
}

// shortCommit returns the first 7 characters of the git commit hash
func shortCommit() string {
	if len(GitCommit) >= 7 {
		return GitCommit[:7]
	}
	return GitCommit
}

// shortDate returns just the date portion of BuildDate (YYYY-MM-DD)
func shortDate() string {
	if len(BuildDate) >= 10 {
		return BuildDate[:10]
	}
	return BuildDate
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// setupLogger builds the stderr logger from config; --verbose forces debug.
func setupLogger() {
	cfg := GetConfig()
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log = logger.New(os.Stderr, logger.Options{Level: level, Format: cfg.Log.Format}, logger.RequestIDExtractor())
}

// runAutoBackup takes a rotating snapshot before commands that touch the board.
// Failures are logged and never stop the command.
func runAutoBackup(cmd *cobra.Command) error {
	for c := cmd; c != nil; c = c.Parent() {
		if skipBackupCommands[c.Name()] {
			return nil
		}
	}
	cfg := GetConfig()
	if !cfg.Backup.Enabled || !db.Exists(GetDBPath()) {
		return nil
	}

	database, err := db.Open(GetDBPath())
	if err != nil {
		log.Warn("automatic backup skipped", slog.String("error", err.Error()))
		return nil
	}
	defer database.Close()

	snap, err := backup.NewManager(database.DB, database.Path(), cfg.Backup).BackupIfDue(context.Background())
	if err != nil {
		log.Warn("automatic backup failed", slog.String("error", err.Error()))
		return nil
	}
	if snap != nil {
		log.Debug("created backup", slog.String("path", snap.Path))
	}
	return nil
}

// GetDBPath returns the database path from flags, config, or default.
// Priority: flag > env > config file > default
func GetDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if globalConfig != nil {
		return globalConfig.GetDB()
	}
	return ""
}

// IsJSON returns whether JSON output is requested
func IsJSON() bool {
	return jsonOut
}

// IsNoColor returns whether colored output should be disabled.
// Priority: flag > env > config file > default
func IsNoColor() bool {
	if noColor {
		return true
	}
	if globalConfig != nil {
		return globalConfig.NoColor
	}
	return false
}

// GetActingEmail returns the email of the user commands act as.
// Priority: --as flag > SPROUT_USER > config file
func GetActingEmail() string {
	if asUser != "" {
		return asUser
	}
	if globalConfig != nil {
		return globalConfig.DefaultUser
	}
	return ""
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig != nil {
		return globalConfig
	}
	return config.DefaultConfig()
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// Output prints to stdout unless quiet mode is enabled
func Output(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format, args...)
	}
}

// OutputLine prints a line to stdout unless quiet mode is enabled
func OutputLine(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// VerboseOutput prints to stdout only in verbose mode
func VerboseOutput(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Printf(format, args...)
	}
}

// ErrorOutput prints to stderr
func ErrorOutput(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
