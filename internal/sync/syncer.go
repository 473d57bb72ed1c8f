package sync

import (
	"context"
	"fmt"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/models"
	"github.com/MarcosRG/bikesul-backend/internal/services/woocommerce"
)

const defaultPageSize = 100

// RemoteClient fetches pages of products and variations from the catalog API.
type RemoteClient interface {
	FetchProductPage(ctx context.Context, categoryID int64, status string, perPage, page int) ([]woocommerce.Product, error)
	FetchAllVariations(ctx context.Context, productID int64) []woocommerce.Variation
}

// ProductStore persists normalized rows keyed by external id.
type ProductStore interface {
	UpsertByExternalID(product *models.Product) error
}

// EventPublisher emits sync events. Implementations tolerate being nil.
type EventPublisher interface {
	PublishProductSynced(ctx context.Context, externalID int64) error
	PublishSyncCompleted(ctx context.Context, summary Summary) error
}

// Summary reports what one sync run did. Fetched counts every product the
// remote returned; Synced counts rows actually persisted; Errors counts
// products that failed and were skipped.
type Summary struct {
	Fetched int `json:"fetched"`
	Synced  int `json:"synced"`
	Errors  int `json:"errors"`
}

// Syncer mirrors the rental category of the remote catalog into the local
// store. Work is strictly sequential: the remote API documents no rate
// limits, so variations are fetched one product at a time.
type Syncer struct {
	client      RemoteClient
	store       ProductStore
	publisher   EventPublisher
	transformer *woocommerce.Transformer
	logger      *logger.Logger
	categoryID  int64
	pageSize    int
}

func New(client RemoteClient, store ProductStore, publisher EventPublisher, transformer *woocommerce.Transformer, logger *logger.Logger, categoryID int64) *Syncer {
	return &Syncer{
		client:      client,
		store:       store,
		publisher:   publisher,
		transformer: transformer,
		logger:      logger,
		categoryID:  categoryID,
		pageSize:    defaultPageSize,
	}
}

// Run pages through the remote catalog and upserts each qualifying product.
// One bad product never aborts the run; only a failed product-page fetch
// does. Running twice against unchanged upstream data is a no-op in effect.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	s.logger.Info("Sync started for category %d", s.categoryID)

	for page := 1; ; page++ {
		products, err := s.client.FetchProductPage(ctx, s.categoryID, models.StatusPublish, s.pageSize, page)
		if err != nil {
			return summary, fmt.Errorf("failed to fetch product page %d: %w", page, err)
		}

		for i := range products {
			product := &products[i]
			summary.Fetched++

			// The upstream category filter has proven unreliable, so
			// membership is re-verified against the embedded list.
			if !product.InCategory(s.categoryID) {
				s.logger.Debug("Skipping product %d: not in category %d", product.ID, s.categoryID)
				continue
			}

			if err := s.syncProduct(ctx, product); err != nil {
				summary.Errors++
				s.logger.Error("Failed to sync product %d: %v", product.ID, err)
				continue
			}
			summary.Synced++
		}

		// A short page is the last page.
		if len(products) < s.pageSize {
			break
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSyncCompleted(ctx, summary); err != nil {
			s.logger.Warn("Failed to publish sync summary: %v", err)
		}
	}

	s.logger.Info("Sync completed: fetched=%d synced=%d errors=%d", summary.Fetched, summary.Synced, summary.Errors)
	return summary, nil
}

func (s *Syncer) syncProduct(ctx context.Context, product *woocommerce.Product) error {
	var variations []woocommerce.Variation
	if product.IsVariable() {
		variations = s.client.FetchAllVariations(ctx, product.ID)
	}

	pricing := woocommerce.ResolvePricing(product.ACF, product.MetaData)

	row, err := s.transformer.ToPersisted(product, variations, pricing)
	if err != nil {
		return err
	}

	if err := s.store.UpsertByExternalID(row); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishProductSynced(ctx, product.ID); err != nil {
			s.logger.Warn("Failed to publish sync event for product %d: %v", product.ID, err)
		}
	}

	return nil
}
