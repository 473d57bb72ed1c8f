package models

// CanonicalProduct is the read-side representation served to the frontend.
// It is rebuilt from a Product row on every read, never stored.
type CanonicalProduct struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Price            float64          `json:"price"`
	RegularPrice     float64          `json:"regular_price"`
	StockQuantity    int              `json:"stock_quantity"`
	StockStatus      string           `json:"stock_status"`
	Status           string           `json:"status"`
	Category         string           `json:"category"`
	Image            string           `json:"image"`
	Images           []string         `json:"images"`
	ShortDescription string           `json:"short_description,omitempty"`
	Description      string           `json:"description,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	VariationIDs     []int64          `json:"variation_ids,omitempty"`
	Variations       []VariationStock `json:"variations,omitempty"`
	Pricing          TieredPricing    `json:"pricing,omitempty"`
}

// TieredPricing holds up to three rental price points keyed by tier name.
// An absent key means no override at that tier.
type TieredPricing map[string]float64
