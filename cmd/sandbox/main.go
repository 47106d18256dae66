// Command sandbox serves an in-memory copy of the platform API so the seeder
// can be exercised without the real services.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ems-seeder/internal/config"
	"ems-seeder/internal/logger"
	"ems-seeder/internal/sandbox"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Sandbox.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := sandbox.New(sandbox.Options{
		JWTSecret:     cfg.Sandbox.JWTSecret,
		AdminEmail:    cfg.Admin.Email,
		AdminPassword: cfg.Admin.Password,
		ProfileDelay:  cfg.Sandbox.ProfileDelay,
	}, zl)
	if err != nil {
		zl.Fatal("Failed to build sandbox", zap.Error(err))
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Sandbox.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("Sandbox starting", zap.String("addr", cfg.Sandbox.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Sandbox stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}

	st := srv.Stats()
	zl.Info("Sandbox stopped",
		zap.Int("users", st.Users),
		zap.Int("events", st.Events),
		zap.Int("bookings", st.Bookings),
	)
}
