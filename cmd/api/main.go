package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fever-tracker/internal/config"
	"fever-tracker/internal/platform/logger"
	"fever-tracker/internal/router"
	"fever-tracker/internal/scheduler"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "fever-tracker",
	})

	rt, err := router.New(router.Options{Config: cfg, Logger: log})
	if err != nil {
		log.Error("startup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer rt.Close()

	backup := scheduler.New(
		rt.ProfilesSvc,
		cfg.BackupPath,
		time.Duration(cfg.BackupIntervalHours)*time.Hour,
		log,
	)
	if err := backup.Start(); err != nil {
		log.Error("backup scheduler failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer backup.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Address, cfg.Port),
		Handler:      rt.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":   srv.Addr,
			"env":    cfg.Env,
			"store":  cfg.StoreDriver,
			"backup": cfg.BackupPath != "",
		})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}
