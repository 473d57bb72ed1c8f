package woocommerce

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/MarcosRG/bikesul-backend/internal/models"
)

// Product represents a WooCommerce product as returned by the REST API.
// Numeric fields arrive inconsistently typed (string, number, empty, null),
// so prices and stock use the Flex wrappers below.
type Product struct {
	ID               int64                  `json:"id"`
	Name             string                 `json:"name"`
	Type             string                 `json:"type"`
	Status           string                 `json:"status"`
	SKU              string                 `json:"sku"`
	Price            FlexFloat              `json:"price"`
	RegularPrice     FlexFloat              `json:"regular_price"`
	ShortDescription string                 `json:"short_description"`
	Description      string                 `json:"description"`
	StockQuantity    FlexInt                `json:"stock_quantity"`
	StockStatus      string                 `json:"stock_status"`
	Categories       []models.Category      `json:"categories"`
	Images           []models.Image         `json:"images"`
	ACF              map[string]interface{} `json:"acf"`
	MetaData         []models.MetaEntry     `json:"meta_data"`
	Variations       []int64                `json:"variations"`
}

// Variation represents a single variation of a variable product.
type Variation struct {
	ID            int64       `json:"id"`
	SKU           string      `json:"sku"`
	StockQuantity FlexInt     `json:"stock_quantity"`
	StockStatus   string      `json:"stock_status"`
	Price         FlexFloat   `json:"price"`
	RegularPrice  FlexFloat   `json:"regular_price"`
	Attributes    []Attribute `json:"attributes"`
}

// Attribute is a variation attribute (e.g. frame size).
type Attribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// IsVariable reports whether the product carries variations of its own.
func (p *Product) IsVariable() bool {
	return strings.EqualFold(p.Type, "variable") || len(p.Variations) > 0
}

// InCategory reports whether the product's embedded category list contains
// the given category id.
func (p *Product) InCategory(categoryID int64) bool {
	for _, c := range p.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// FlexFloat decodes from a JSON number, a numeric string, an empty string
// or null. Anything non-numeric decodes to zero rather than failing the
// whole document.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexFloat(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexFloat(v)
	}
	return nil
}

// FlexInt decodes from a JSON number, a numeric string or null, defaulting
// to zero. Fractional values are truncated.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(f)
	return nil
}
