package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/sync"

	"github.com/segmentio/kafka-go"
)

const Topic = "product-events"

const (
	TypeProductSynced = "product.synced"
	TypeSyncCompleted = "sync.completed"
)

// Event is the wire shape shared with the worker.
type Event struct {
	Type      string                 `json:"type"`
	ProductID string                 `json:"product_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher writes sync events to Kafka. A nil Publisher is valid and
// publishes nothing, so deployments without brokers still sync.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	if brokers == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) PublishProductSynced(ctx context.Context, externalID int64) error {
	return p.publish(ctx, Event{
		Type:      TypeProductSynced,
		ProductID: fmt.Sprintf("%d", externalID),
		Timestamp: time.Now(),
	})
}

func (p *Publisher) PublishSyncCompleted(ctx context.Context, summary sync.Summary) error {
	return p.publish(ctx, Event{
		Type: TypeSyncCompleted,
		Data: map[string]interface{}{
			"fetched": summary.Fetched,
			"synced":  summary.Synced,
			"errors":  summary.Errors,
		},
		Timestamp: time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
