package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/config"
	"github.com/MarcosRG/bikesul-backend/internal/events"
	"github.com/MarcosRG/bikesul-backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Worker consumes sync events and drops stale cached listings so reads
// pick up refreshed rows without waiting out the TTL.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	cache  *cache.Cache
}

func New(cfg *config.Config, logger *logger.Logger, cache *cache.Cache) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "bikesul-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		cache:  cache,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for sync events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event %s processed", event.Type)
	}
}

func (w *Worker) process(event events.Event) error {
	switch event.Type {
	case events.TypeProductSynced, events.TypeSyncCompleted:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.cache.InvalidateProducts(ctx)
	default:
		w.logger.Debug("Ignoring event type %s", event.Type)
		return nil
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
