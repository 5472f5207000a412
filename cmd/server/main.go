package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/config"
	"github.com/agenthands/annex/internal/gateway"
	"github.com/agenthands/annex/internal/logging"
	"github.com/agenthands/annex/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOptional(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gw, closeGateway, err := gateway.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize gateway", zap.Error(err))
	}
	defer closeGateway()

	srv := server.NewServer(gw, cfg, logger)
	r := srv.SetupRouter()

	logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("gateway", cfg.Gateway.Mode))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
