package cli

import (
	"fmt"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/diogenes-ai-code/sprout/internal/service"
	"github.com/spf13/cobra"
)

var (
	initForce      bool
	initAdminName  string
	initAdminEmail string
	initNoTags     bool
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing database")
	initCmd.Flags().StringVar(&initAdminName, "admin-name", "", "Name of the first administrator")
	initCmd.Flags().StringVar(&initAdminEmail, "admin-email", "", "Email of the first administrator")
	initCmd.Flags().BoolVar(&initNoTags, "no-default-tags", false, "Don't create the default tags")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new sprout board",
	Long: `Initialize sprout by creating the ~/.sprout/ directory and database.

This command:
- Creates ~/.sprout/ directory if it doesn't exist
- Creates sprout.db with the database schema
- Creates the default tags (Bug, Feature Request, Needs Triage)
- Optionally registers the first administrator

Use --force to overwrite an existing database.

Examples:
  sprout init
  sprout init --admin-name "Jon Snow" --admin-email jon.snow@example.com`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

type initResult struct {
	Database string       `json:"database"`
	Created  bool         `json:"created"`
	Schema   int64        `json:"schema_version"`
	Admin    *models.User `json:"admin,omitempty"`
}

func runInit(cmd *cobra.Command, args []string) error {
	path := GetDBPath()

	if (initAdminName == "") != (initAdminEmail == "") {
		return ErrInvalidArgs("--admin-name and --admin-email must be given together")
	}

	if db.Exists(path) && !initForce {
		if IsJSON() {
			return printJSON(initResult{Database: displayDBPath(path), Created: false})
		}
		return fmt.Errorf("database already exists at %s (use --force to overwrite)", displayDBPath(path))
	}

	if initForce && db.Exists(path) {
		VerboseOutput("Removing existing database...\n")
		if err := db.Delete(path); err != nil {
			return ErrDatabase(err, "failed to remove existing database")
		}
	}

	VerboseOutput("Creating database...\n")
	database, err := db.Open(path)
	if err != nil {
		return ErrDatabase(err, "failed to create database")
	}
	defer database.Close()

	VerboseOutput("Running migrations...\n")
	if err := database.Migrate(); err != nil {
		return ErrDatabase(err, "failed to run migrations")
	}

	if !initNoTags {
		VerboseOutput("Creating default tags...\n")
		if err := db.SeedDefaultTags(database.DB); err != nil {
			return ErrDatabase(err, "failed to create default tags")
		}
	}

	version, err := database.MigrationStatus()
	if err != nil {
		return ErrDatabase(err, "failed to get migration status")
	}

	result := initResult{Database: database.Path(), Created: true, Schema: version}
	if initAdminEmail != "" {
		admin, err := service.NewUserService(database.DB, log).Register(initAdminName, initAdminEmail, models.RoleAdministrator, nil)
		if err != nil {
			return err
		}
		result.Admin = admin
	}

	if IsJSON() {
		return printJSON(result)
	}

	OutputLine("Initialized sprout board at %s", result.Database)
	OutputLine("Schema version: %d", version)
	if result.Admin != nil {
		OutputLine("Administrator: %s <%s>", result.Admin.Name, result.Admin.Email)
	}
	return nil
}
