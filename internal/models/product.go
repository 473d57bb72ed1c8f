package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the persisted catalog row. External id is the upsert key;
// rows are written only by the sync loop and never deleted.
type Product struct {
	ID               string    `json:"id" gorm:"primary_key"`
	ExternalID       int64     `json:"external_id" gorm:"uniqueIndex;not null"`
	Name             string    `json:"name" gorm:"not null"`
	Status           string    `json:"status"`
	Price            float64   `json:"price" gorm:"type:decimal(10,2)"`
	RegularPrice     float64   `json:"regular_price" gorm:"type:decimal(10,2)"`
	StockQuantity    int       `json:"stock_quantity"`
	StockStatus      string    `json:"stock_status"`
	Categories       string    `json:"categories"`
	Images           string    `json:"images"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	VariationIDs     string    `json:"variation_ids" gorm:"column:variation_ids"`
	VariationsStock  string    `json:"variations_stock"`
	ACFData          string    `json:"acf_data" gorm:"column:acf_data"`
	MetaData         string    `json:"meta_data" gorm:"column:meta_data"`
	SKU              string    `json:"sku"`
	Price12          *float64  `json:"price_1_2" gorm:"column:price_1_2;type:decimal(10,2)"`
	Price36          *float64  `json:"price_3_6" gorm:"column:price_3_6;type:decimal(10,2)"`
	Price7Mais       *float64  `json:"price_7_mais" gorm:"column:price_7_mais;type:decimal(10,2)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Category is one element of the serialized categories column.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug"`
}

// Image is one element of the serialized images column.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// MetaEntry is one element of the serialized meta_data column.
type MetaEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// VariationStock is the per-variation snapshot embedded on the parent row.
type VariationStock struct {
	ID            int64   `json:"id"`
	SKU           string  `json:"sku,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	StockStatus   string  `json:"stock_status"`
	Price         float64 `json:"price"`
	RegularPrice  float64 `json:"regular_price"`
}

const (
	StockStatusInStock    = "instock"
	StockStatusOutOfStock = "outofstock"

	StatusPublish = "publish"
)

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
