package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/scholaris/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Pending migrations are applied and default
data is seeded before the server starts listening.

Example:
  scholarctl serve --config configs/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(configPath)
		if err != nil {
			return err
		}
		return srv.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
