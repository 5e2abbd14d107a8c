// SevaSetu Foundation backend: memberships, donations, contact handling and
// the public support chat.
//
// @title SevaSetu API
// @version 1.0
// @description REST API for the SevaSetu Foundation web platform
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"os"

	"github.com/sevasetu/sevasetu/internal/bootstrap"
	"github.com/sevasetu/sevasetu/internal/config"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
	"github.com/sevasetu/sevasetu/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	migrationsDir := flag.String("migrations", "migrations", "path to the SQL migrations directory")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	app, err := bootstrap.New(context.Background(), cfg, *migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to bootstrap application")
	}

	if err := server.New(app).Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
