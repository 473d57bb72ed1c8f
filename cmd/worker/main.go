package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/config"
	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	if cfg.KafkaBrokers == "" {
		logger.Fatal("KAFKA_BROKERS must be set for the worker")
	}

	productCache, err := cache.New(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis: %v", err)
	}
	defer productCache.Close()

	// Initialize worker
	w := worker.New(cfg, logger, productCache)

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
