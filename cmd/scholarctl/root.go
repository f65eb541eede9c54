package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yigit/scholaris/internal/bootstrap"
	"github.com/yigit/scholaris/internal/config"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/filestorage"

	appRepos "github.com/yigit/scholaris/internal/app/repositories"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scholarctl",
	Short: "Scholarship administration toolkit",
	Long: `scholarctl runs the scholarship administration API and performs
maintenance tasks against its database: schema migrations, seeding,
masterlist imports and exports.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "Path to the YAML configuration file")
}

// session bundles what offline commands need to call the services
type session struct {
	cfg      *config.Config
	database *db.PostgresDB
	services *bootstrap.Services
}

func (s *session) Close() {
	s.database.Close()
}

// openSession connects to the configured database without migrating it.
func openSession() (*session, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, err
	}
	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	services := bootstrap.BuildServices(cfg, database, appRepos.NewRepositories(database),
		storage, bootstrap.NewJWTService(cfg), lgr)
	return &session{cfg: cfg, database: database, services: services}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
