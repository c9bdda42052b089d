package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/app"
	"github.com/avetrov/reporthub/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("init app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("run app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("stopped")
}
