package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/avolkhin/tripmate/internal/config"
	httphandler "github.com/avolkhin/tripmate/internal/handler/http"
	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/server"
	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.NewLogger("tripmate-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	log.Debug().Any("config", cfg).Msg("effective config")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}

	services := service.NewServices(*storages, *cfg, log)
	handler := httphandler.NewHandler(services, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	srv.RunServer()
}

func printBuildInfo() {
	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
