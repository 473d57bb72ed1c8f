package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/models"
	"github.com/MarcosRG/bikesul-backend/internal/services/woocommerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	pages      [][]woocommerce.Product
	variations map[int64][]woocommerce.Variation
	pageErr    error
	pageCalls  int
}

func (f *fakeClient) FetchProductPage(ctx context.Context, categoryID int64, status string, perPage, page int) ([]woocommerce.Product, error) {
	f.pageCalls++
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func (f *fakeClient) FetchAllVariations(ctx context.Context, productID int64) []woocommerce.Variation {
	return f.variations[productID]
}

type fakeStore struct {
	rows    map[int64]models.Product
	failFor map[int64]error
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]models.Product{}, failFor: map[int64]error{}}
}

func (f *fakeStore) UpsertByExternalID(product *models.Product) error {
	f.upserts++
	if err := f.failFor[product.ExternalID]; err != nil {
		return err
	}
	f.rows[product.ExternalID] = *product
	return nil
}

type fakePublisher struct {
	productEvents int
	summaryEvents int
}

func (f *fakePublisher) PublishProductSynced(ctx context.Context, externalID int64) error {
	f.productEvents++
	return nil
}

func (f *fakePublisher) PublishSyncCompleted(ctx context.Context, summary Summary) error {
	f.summaryEvents++
	return nil
}

func rentalProduct(id int64) woocommerce.Product {
	return woocommerce.Product{
		ID:     id,
		Name:   fmt.Sprintf("Bike %d", id),
		Type:   "simple",
		Status: "publish",
		Categories: []models.Category{
			{ID: 319, Slug: "alugueres"},
		},
	}
}

func newTestSyncer(client *fakeClient, store *fakeStore, publisher EventPublisher) *Syncer {
	transformer := woocommerce.NewTransformer(319, "alugueres")
	return New(client, store, publisher, transformer, logger.New("error"), 319)
}

func TestRunSyncsAndCounts(t *testing.T) {
	outsider := rentalProduct(3)
	outsider.Categories = []models.Category{{ID: 12, Slug: "btt"}}

	client := &fakeClient{
		pages: [][]woocommerce.Product{
			{rentalProduct(1), rentalProduct(2), outsider},
		},
	}
	store := newFakeStore()
	publisher := &fakePublisher{}

	summary, err := newTestSyncer(client, store, publisher).Run(context.Background())
	require.NoError(t, err)

	// The outsider counts as fetched but is neither synced nor an error,
	// and never reaches the store.
	assert.Equal(t, Summary{Fetched: 3, Synced: 2, Errors: 0}, summary)
	assert.Len(t, store.rows, 2)
	assert.NotContains(t, store.rows, int64(3))
	assert.Equal(t, 2, publisher.productEvents)
	assert.Equal(t, 1, publisher.summaryEvents)
}

func TestRunContinuesPastPerProductFailures(t *testing.T) {
	client := &fakeClient{
		pages: [][]woocommerce.Product{
			{rentalProduct(1), rentalProduct(2), rentalProduct(3)},
		},
	}
	store := newFakeStore()
	store.failFor[2] = errors.New("constraint violated")

	summary, err := newTestSyncer(client, store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Fetched: 3, Synced: 2, Errors: 1}, summary)
	assert.Contains(t, store.rows, int64(1))
	assert.Contains(t, store.rows, int64(3))
}

func TestRunAbortsOnPageFetchFailure(t *testing.T) {
	client := &fakeClient{pageErr: errors.New("upstream down")}
	store := newFakeStore()

	summary, err := newTestSyncer(client, store, nil).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Empty(t, store.rows)
}

func TestRunTerminatesOnShortPage(t *testing.T) {
	// A non-empty page shorter than the page size is the last page: no
	// second fetch happens.
	client := &fakeClient{
		pages: [][]woocommerce.Product{
			{rentalProduct(1), rentalProduct(2)},
			{rentalProduct(99)},
		},
	}
	store := newFakeStore()

	summary, err := newTestSyncer(client, store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, client.pageCalls)
	assert.Equal(t, 2, summary.Fetched)
	assert.NotContains(t, store.rows, int64(99))
}

func TestRunPagesThroughFullPages(t *testing.T) {
	full := make([]woocommerce.Product, defaultPageSize)
	for i := range full {
		full[i] = rentalProduct(int64(i + 1))
	}

	client := &fakeClient{
		pages: [][]woocommerce.Product{
			full,
			{rentalProduct(1000)},
		},
	}
	store := newFakeStore()

	summary, err := newTestSyncer(client, store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, client.pageCalls)
	assert.Equal(t, defaultPageSize+1, summary.Fetched)
	assert.Equal(t, defaultPageSize+1, summary.Synced)
}

func TestRunIsIdempotent(t *testing.T) {
	client := &fakeClient{
		pages: [][]woocommerce.Product{
			{rentalProduct(1), rentalProduct(2)},
		},
	}
	store := newFakeStore()
	syncer := newTestSyncer(client, store, nil)

	first, err := syncer.Run(context.Background())
	require.NoError(t, err)
	rowsAfterFirst := len(store.rows)

	second, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Synced, second.Synced)
	assert.Equal(t, rowsAfterFirst, len(store.rows))
}

func TestRunAggregatesVariableProductStock(t *testing.T) {
	variable := rentalProduct(10)
	variable.Type = "variable"
	variable.Variations = []int64{11, 12}

	client := &fakeClient{
		pages: [][]woocommerce.Product{{variable}},
		variations: map[int64][]woocommerce.Variation{
			10: {
				{ID: 11, StockQuantity: 3, StockStatus: "instock"},
				{ID: 12, StockQuantity: 2, StockStatus: "instock"},
			},
		},
	}
	store := newFakeStore()

	_, err := newTestSyncer(client, store, nil).Run(context.Background())
	require.NoError(t, err)

	row := store.rows[10]
	assert.Equal(t, 5, row.StockQuantity)
	assert.Equal(t, models.StockStatusInStock, row.StockStatus)
}
