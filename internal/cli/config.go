package cli

import (
	"fmt"

	"github.com/diogenes-ai-code/sprout/internal/config"
	"github.com/spf13/cobra"
)

var (
	configForce bool
	configPath  string
)

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configPath, "path", "", "Where to write the file (default ~/.sprout/config.toml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sprout configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if path == "" {
			return ErrInvalidArgs("cannot determine home directory; pass --path")
		}
		if fileExists(path) && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteConfigFile(path); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		if IsJSON() {
			return printJSON(map[string]string{"path": path})
		}
		OutputLine("Wrote config file to %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *GetConfig()
		cfg.DB = displayDBPath(GetDBPath())
		if asUser != "" {
			cfg.DefaultUser = asUser
		}
		if IsJSON() {
			return printJSON(cfg)
		}
		OutputLine("db            = %s", cfg.DB)
		OutputLine("default_user  = %s", cfg.DefaultUser)
		OutputLine("timezone      = %s", cfg.Timezone)
		OutputLine("no_color      = %t", IsNoColor())
		OutputLine("backup        = enabled=%t every %dh, keep %d", cfg.Backup.Enabled, cfg.Backup.IntervalHours, cfg.Backup.MaxCount)
		OutputLine("server        = %s:%d", cfg.Server.Host, cfg.Server.Port)
		OutputLine("log           = %s (%s)", cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}
