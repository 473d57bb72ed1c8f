package woocommerce

import (
	"testing"

	"github.com/MarcosRG/bikesul-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolvePricingFromACF(t *testing.T) {
	acf := map[string]interface{}{
		"precio_1_2":    "25",
		"precio_3_6":    22.5,
		"precio_7_mais": "18.00",
	}

	pricing := ResolvePricing(acf, nil)

	assert.Equal(t, models.TieredPricing{
		"precio_1_2":    25.0,
		"precio_3_6":    22.5,
		"precio_7_mais": 18.0,
	}, pricing)
}

func TestResolvePricingACFWinsEvenWhenPartial(t *testing.T) {
	// Tier-1 is only present in meta_data, but the ACF map already yielded
	// tiers, so meta_data must not be consulted at all.
	acf := map[string]interface{}{
		"precio_3_6":    "22.5",
		"precio_7_mais": "18",
	}
	meta := []models.MetaEntry{
		{Key: "precio_1_2", Value: "25"},
	}

	pricing := ResolvePricing(acf, meta)

	assert.NotContains(t, pricing, "precio_1_2")
	assert.Equal(t, 22.5, pricing["precio_3_6"])
	assert.Equal(t, 18.0, pricing["precio_7_mais"])
}

func TestResolvePricingFallsBackToMetaData(t *testing.T) {
	meta := []models.MetaEntry{
		{Key: "_precio_1_2", Value: "15.5"},
		{Key: "precio_3_6", Value: 12},
		{Key: "unrelated", Value: "99"},
	}

	pricing := ResolvePricing(map[string]interface{}{}, meta)

	assert.Equal(t, 15.5, pricing["precio_1_2"])
	assert.Equal(t, 12.0, pricing["precio_3_6"])
	assert.NotContains(t, pricing, "precio_7_mais")
}

func TestResolvePricingEmptyACFValuesFallThrough(t *testing.T) {
	// Empty-string ACF values count as absent, so the meta_data scan still
	// runs.
	acf := map[string]interface{}{
		"precio_1_2": "",
		"precio_3_6": nil,
	}
	meta := []models.MetaEntry{
		{Key: "precio_1_2", Value: "30"},
	}

	pricing := ResolvePricing(acf, meta)

	assert.Equal(t, models.TieredPricing{"precio_1_2": 30.0}, pricing)
}

func TestResolvePricingRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"zero", "0"},
		{"negative", -5.0},
		{"non numeric", "abc"},
		{"whitespace", "   "},
		{"bool", true},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := []models.MetaEntry{{Key: "precio_1_2", Value: tt.value}}
			pricing := ResolvePricing(nil, meta)
			assert.Empty(t, pricing)
		})
	}
}

func TestResolvePricingMetaTiersResolveIndependently(t *testing.T) {
	meta := []models.MetaEntry{
		{Key: "precio_7_mais", Value: "18"},
		{Key: "_precio_3_6", Value: "broken"},
		{Key: "precio_3_6", Value: "22"},
	}

	pricing := ResolvePricing(nil, meta)

	assert.Equal(t, 22.0, pricing["precio_3_6"])
	assert.Equal(t, 18.0, pricing["precio_7_mais"])
}
