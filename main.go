package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ems-seeder/internal/client"
	"ems-seeder/internal/config"
	"ems-seeder/internal/logger"
	"ems-seeder/internal/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	os.Exit(run(cfg, zl))
}

func run(cfg *config.Config, zl *zap.Logger) int {
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeder := seed.New(cfg, client.New(cfg), zl)

	if _, err := seeder.Run(ctx); err != nil {
		switch {
		case errors.Is(err, seed.ErrAborted):
			zl.Warn("Seeding aborted")
		case errors.Is(err, context.Canceled):
			zl.Warn("Seeding interrupted", zap.Error(err))
		case errors.Is(err, seed.ErrAdminLogin):
			zl.Error("Cannot continue without an admin session", zap.Error(err))
		default:
			zl.Error("Seeding failed", zap.Error(err))
		}
		return 1
	}

	zl.Info("Seeding completed", zap.Uint64("seed", cfg.Seed.RandomSeed))
	return 0
}
