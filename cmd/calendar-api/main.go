package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/app"
	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/handlers"
	"github.com/rutvikdhakate/sports-calendar/internal/logging"
	"github.com/rutvikdhakate/sports-calendar/internal/metrics"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Init("text", logging.ParseLevel("info")).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level)).With("service", "calendar-api")

	ctx := context.Background()
	deps, err := app.Open(ctx, cfg, logger, false)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	var status handlers.RunStatusReader
	if rc := deps.StatusReader(); rc != nil {
		status = rc
	}

	handler := handlers.NewHandler(deps.Store, cfg.Sports, status, logger)
	router := handlers.NewRouter(handler, metrics.NewHTTPMetrics(), cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			deps.Close()
			os.Exit(1)
		}

	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", "error", err)
			if err := srv.Close(); err != nil {
				logger.Error("could not stop server", "error", err)
			}
		}
	}

	logger.Info("shutdown complete")
}
