package main

import (
	"os"

	"github.com/yigit/scholaris/internal/pkg/logger"
	"github.com/yigit/scholaris/internal/server"
)

// @title Scholaris API
// @version 1.0
// @description Administration API for scholarship programs: scholars, academic records, disbursements, budgets and staff documents.

// @contact.name Scholarship Administration Office
// @contact.email support@scholaris.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, prefixed with "Bearer "

func main() {
	srv, err := server.NewServer(os.Getenv("SCHOLARIS_CONFIG"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
