package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/whoniverse/archive/internal/config"
	"github.com/whoniverse/archive/internal/database"
	"github.com/whoniverse/archive/internal/logger"
	"github.com/whoniverse/archive/internal/modules/modulemanager"
	"github.com/whoniverse/archive/internal/server"
)

func main() {
	// Local development credentials live in .env; absence is fine
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err)
	}
	logger.Init()

	configPath := os.Getenv("ARCHIVE_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./archive.yaml"); err == nil {
			configPath = "./archive.yaml"
		}
	}
	if err := config.Load(configPath); err != nil {
		logger.Error("Failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}
	logCfg := config.Get().Logging
	logger.Configure(logCfg.Level, logCfg.Format)

	if err := database.Initialize(); err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		logger.Error("Failed to load modules", "error", err)
		os.Exit(1)
	}

	r := server.SetupRouter()
	cfg := config.Get()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down gracefully")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		modulemanager.ShutdownAll(shutdownCtx)

		cancel()
	}()

	logger.Info("Starting archive server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server shutdown complete")
}
