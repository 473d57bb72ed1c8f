package woocommerce

import (
	"encoding/json"
	"testing"

	"github.com/MarcosRG/bikesul-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer() *Transformer {
	return NewTransformer(319, "alugueres")
}

func TestToPersistedAggregatesVariationStock(t *testing.T) {
	product := &Product{
		ID:            101,
		Name:          "Gravel Bike",
		Type:          "variable",
		Status:        "publish",
		StockQuantity: 99, // own stock ignored once variations exist
	}
	// stock_quantity null decodes to 0 via FlexInt
	var variations []Variation
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "stock_quantity": 3, "stock_status": "instock"},
		{"id": 2, "stock_quantity": 0, "stock_status": "outofstock"},
		{"id": 3, "stock_quantity": null, "stock_status": "instock"},
		{"id": 4, "stock_quantity": 2, "stock_status": "instock"}
	]`), &variations))

	row, err := newTestTransformer().ToPersisted(product, variations, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, row.StockQuantity)
	assert.Equal(t, models.StockStatusInStock, row.StockStatus)
}

func TestToPersistedFallsBackToOwnStock(t *testing.T) {
	product := &Product{
		ID:            102,
		Name:          "Helmet",
		Type:          "simple",
		Status:        "Publish",
		StockQuantity: 7,
		StockStatus:   "InStock",
	}

	row, err := newTestTransformer().ToPersisted(product, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, row.StockQuantity)
	assert.Equal(t, "instock", row.StockStatus)
	assert.Equal(t, "publish", row.Status)
}

func TestToPersistedPriceSource(t *testing.T) {
	product := &Product{ID: 103, Name: "City Bike", Price: 40}

	row, err := newTestTransformer().ToPersisted(product, nil, models.TieredPricing{TierKey12: 25})
	require.NoError(t, err)
	assert.Equal(t, 25.0, row.Price)
	require.NotNil(t, row.Price12)
	assert.Equal(t, 25.0, *row.Price12)
	assert.Nil(t, row.Price36)

	row, err = newTestTransformer().ToPersisted(product, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, row.Price)
}

func TestToPersistedSerializesRoundTrip(t *testing.T) {
	product := &Product{
		ID:     104,
		Name:   "E-Bike",
		Status: "publish",
		Categories: []models.Category{
			{ID: 319, Slug: "alugueres"},
			{ID: 22, Slug: "e-bikes"},
		},
		Images:     []models.Image{{Src: "https://cdn.example.com/ebike.jpg"}},
		Variations: []int64{201, 202},
		ACF:        map[string]interface{}{"precio_1_2": "30"},
		MetaData:   []models.MetaEntry{{Key: "_precio_3_6", Value: "27"}},
	}

	row, err := newTestTransformer().ToPersisted(product, nil, models.TieredPricing{TierKey12: 30})
	require.NoError(t, err)

	canonical := newTestTransformer().ToCanonical(row)

	assert.Equal(t, "104", canonical.ID)
	assert.Equal(t, "e-bikes", canonical.Category)
	assert.Equal(t, "https://cdn.example.com/ebike.jpg", canonical.Image)
	assert.Equal(t, []int64{201, 202}, canonical.VariationIDs)
	assert.Equal(t, 30.0, canonical.Price)
}

func TestToCanonicalPricePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		row      models.Product
		expected float64
	}{
		{
			name: "tier 1 from acf wins over stored price",
			row: models.Product{
				ExternalID: 1,
				Price:      40,
				ACFData:    `{"precio_1_2": "25"}`,
			},
			expected: 25,
		},
		{
			name: "tier 1 re-derived from meta data",
			row: models.Product{
				ExternalID: 2,
				Price:      40,
				MetaData:   `[{"key": "_precio_1_2", "value": "15.5"}]`,
			},
			expected: 15.5,
		},
		{
			name:     "stored price",
			row:      models.Product{ExternalID: 3, Price: 40},
			expected: 40,
		},
		{
			name:     "regular price fallback",
			row:      models.Product{ExternalID: 4, RegularPrice: 35},
			expected: 35,
		},
		{
			name:     "zero when nothing is set",
			row:      models.Product{ExternalID: 5},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical := newTestTransformer().ToCanonical(&tt.row)
			assert.Equal(t, tt.expected, canonical.Price)
		})
	}
}

func TestToCanonicalDegradesOnMalformedCategories(t *testing.T) {
	row := &models.Product{
		ExternalID:   55,
		Name:         "Road Bike",
		Price:        20,
		Status:       "publish",
		Categories:   `{"this is": not json`,
		Images:       `[{"src": "https://cdn.example.com/road.jpg"}]`,
		MetaData:     `[]`,
		VariationIDs: `[]`,
	}

	canonical := newTestTransformer().ToCanonical(row)

	assert.Equal(t, "55", canonical.ID)
	assert.Equal(t, "Road Bike", canonical.Name)
	assert.Equal(t, 20.0, canonical.Price)
	assert.Equal(t, DefaultCategory, canonical.Category)
	assert.Equal(t, PlaceholderImage, canonical.Image)
	assert.Equal(t, "publish", canonical.Status)
}

func TestToCanonicalNeverEmptyIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		row      models.Product
		expected string
	}{
		{"external id", models.Product{ExternalID: 42}, "42"},
		{"row id fallback", models.Product{ID: "abc-123"}, "abc-123"},
		{"sentinel", models.Product{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical := newTestTransformer().ToCanonical(&tt.row)
			assert.Equal(t, tt.expected, canonical.ID)
			assert.NotEmpty(t, canonical.ID)
		})
	}
}

func TestToCanonicalPrimaryCategorySkipsRentalSlug(t *testing.T) {
	row := &models.Product{
		ExternalID: 7,
		Categories: `[{"id": 319, "slug": "alugueres"}, {"id": 12, "slug": "btt"}]`,
	}
	canonical := newTestTransformer().ToCanonical(row)
	assert.Equal(t, "btt", canonical.Category)

	row.Categories = `[{"id": 319, "slug": "alugueres"}]`
	canonical = newTestTransformer().ToCanonical(row)
	assert.Equal(t, DefaultCategory, canonical.Category)
}

func TestToCanonicalPlaceholderImage(t *testing.T) {
	row := &models.Product{ExternalID: 8, Images: `[]`}
	canonical := newTestTransformer().ToCanonical(row)
	assert.Equal(t, PlaceholderImage, canonical.Image)
}
