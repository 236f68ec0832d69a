package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rutvikdhakate/sports-calendar/internal/app"
	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/logging"
	"github.com/rutvikdhakate/sports-calendar/internal/seed"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Init("text", logging.ParseLevel("info")).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level)).With("service", "seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, logger, false)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}

	_, err = seed.Run(ctx, deps.Store, logger)
	deps.Close()
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}
