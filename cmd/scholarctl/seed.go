package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/scholaris/internal/bootstrap"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default programs, provinces and the superadmin account",
	Long: `Insert reference data that the API expects to exist. Existing rows
are left untouched, so the command can be re-run safely.

The superadmin credentials come from seed.admin_email and
seed.admin_password (SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := bootstrap.SeedDefaults(cmd.Context(), s.cfg, s.database, logger.Get()); err != nil {
			return err
		}
		logger.Info().Msg("Default data seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
