package main

import (
	"log"

	"github.com/MarcosRG/bikesul-backend/internal/api"
	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/config"
	"github.com/MarcosRG/bikesul-backend/internal/database"
	"github.com/MarcosRG/bikesul-backend/internal/events"
	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/services/woocommerce"
	"github.com/MarcosRG/bikesul-backend/internal/store"
	"github.com/MarcosRG/bikesul-backend/internal/sync"
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
	defer db.Close()

	// Redis cache is optional; without it reads go straight to the store.
	productCache, err := cache.New(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis: %v", err)
	}
	defer productCache.Close()

	// Kafka is optional; without it sync events are dropped.
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	st := store.New(db.DB)
	wooClient := woocommerce.NewClient(cfg.WooBaseURL, cfg.WooConsumerKey, cfg.WooConsumerSecret, logger)
	transformer := woocommerce.NewTransformer(int64(cfg.RentalCategoryID), cfg.RentalCategorySlug)
	syncer := sync.New(wooClient, st, publisher, transformer, logger, int64(cfg.RentalCategoryID))

	// Initialize API server
	server := api.New(cfg, logger, st, productCache, syncer)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
