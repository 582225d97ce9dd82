package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"feedforge/internal/config"
	"feedforge/internal/database"
	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/generator"
	"feedforge/internal/feed/shipping"
	"feedforge/internal/logger"
	"feedforge/internal/store"
	"feedforge/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Initialize feed generator
	st := store.New(db.DB)
	gen := generator.New(st, channels.NewRegistry(), shipping.NewCart(nil), logger, cfg.FeedDir)

	// Initialize worker
	w := worker.New(cfg, logger, gen)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
