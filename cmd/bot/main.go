package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"

	"github.com/pavelc4/terabox-tg-bot/config"
	"github.com/pavelc4/terabox-tg-bot/internal/app"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
	"github.com/pavelc4/terabox-tg-bot/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutting down...")
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	closer, err := logger.Init(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.CleanupStale(ctx, cfg.DownloadDir)

	a, err := app.New(cfg)
	if err != nil {
		return errors.Wrap(err, "initialize app")
	}

	logger.Info("Starting bot")
	if err := a.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
