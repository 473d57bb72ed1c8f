package woocommerce

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/MarcosRG/bikesul-backend/internal/models"
)

// Rental price tiers: 1-2 days, 3-6 days, 7 or more days.
const (
	TierKey12    = "precio_1_2"
	TierKey36    = "precio_3_6"
	TierKey7Mais = "precio_7_mais"
)

var tierKeys = []string{TierKey12, TierKey36, TierKey7Mais}

// ResolvePricing extracts tiered rental prices from a product's ACF map,
// falling back to its meta_data list. The two sources are exclusive: if the
// ACF map yields any tier at all, meta_data is never consulted, even for
// tiers the ACF map is missing. This mirrors how pricing actually lives
// upstream, where a product has its rates in exactly one of the two places.
func ResolvePricing(acf map[string]interface{}, metaData []models.MetaEntry) models.TieredPricing {
	pricing := models.TieredPricing{}

	for _, key := range tierKeys {
		if raw, ok := acf[key]; ok {
			if v, ok := coercePrice(raw); ok {
				pricing[key] = v
			}
		}
	}
	if len(pricing) > 0 {
		return pricing
	}

	// Meta keys may carry a leading underscore depending on how the field
	// was written; each tier resolves independently.
	for _, key := range tierKeys {
		for _, entry := range metaData {
			if entry.Key != key && entry.Key != "_"+key {
				continue
			}
			if v, ok := coercePrice(entry.Value); ok {
				pricing[key] = v
				break
			}
		}
	}

	return pricing
}

// coercePrice converts an arbitrary JSON value to a strictly positive
// price. Empty strings, zero, negatives and non-numeric values are
// rejected rather than erroring.
func coercePrice(raw interface{}) (float64, bool) {
	var v float64

	switch val := raw.(type) {
	case float64:
		v = val
	case int:
		v = float64(val)
	case int64:
		v = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}

	if v <= 0 {
		return 0, false
	}
	return v, true
}
