package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/config"
	"github.com/agenthands/annex/internal/logging"
)

var (
	configPath string
	gatewayURL string
	mode       string
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "navctl",
		Short:        "Explore graph-linked records from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.toml", "path to the TOML config file")
	root.PersistentFlags().StringVar(&gatewayURL, "base-url", "", "Brain Annex server URL (http mode)")
	root.PersistentFlags().StringVar(&mode, "mode", "", "gateway mode: http or bolt")

	root.AddCommand(newExploreCmd(), newSummaryCmd())
	return root
}

// loadConfig resolves file, environment and flag settings, flags winning.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}
	if mode != "" {
		cfg.Gateway.Mode = mode
	}
	if gatewayURL != "" {
		cfg.Gateway.BaseURL = gatewayURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// keep the terminal readable: only warnings and up
	logCfg := cfg.Log
	logCfg.Format = "console"
	if logCfg.Level == "" || logCfg.Level == "info" || logCfg.Level == "debug" {
		logCfg.Level = "warn"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}
