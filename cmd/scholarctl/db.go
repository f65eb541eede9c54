package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yigit/scholaris/internal/app/migrations"
	"github.com/yigit/scholaris/internal/bootstrap"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Run all pending migrations embedded in the binary.

Example:
  scholarctl db migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		return m.Up()
	},
}

var dbDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback the given number of migrations (default: 1).

Example:
  scholarctl db down      # Rollback 1 migration
  scholarctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		m, err := newMigrator()
		if err != nil {
			return err
		}
		return m.Down(steps)
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		version, dirty, err := m.Status()
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %d\nDirty:   %t\n", version, dirty)
		return nil
	},
}

func newMigrator() (*migrations.Migrator, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, err
	}
	return migrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr), nil
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd, dbDownCmd, dbStatusCmd)
	rootCmd.AddCommand(dbCmd)
}
