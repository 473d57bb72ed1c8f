package woocommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/models"
)

const (
	// PlaceholderImage is served when a product has no images.
	PlaceholderImage = "/placeholder.svg"

	// DefaultCategory is the category slug served when a product has no
	// category besides the rental filter itself.
	DefaultCategory = "general"
)

type Transformer struct {
	rentalCategoryID   int64
	rentalCategorySlug string
}

func NewTransformer(rentalCategoryID int64, rentalCategorySlug string) *Transformer {
	return &Transformer{
		rentalCategoryID:   rentalCategoryID,
		rentalCategorySlug: rentalCategorySlug,
	}
}

// ToPersisted converts a remote product, its resolved variations and its
// resolved pricing into the canonical row shape. List and map fields are
// serialized opaquely; the store only needs to round-trip them.
func (t *Transformer) ToPersisted(product *Product, variations []Variation, pricing models.TieredPricing) (*models.Product, error) {
	stockQuantity := int(product.StockQuantity)
	stockStatus := strings.ToLower(product.StockStatus)

	snapshots := make([]models.VariationStock, len(variations))
	for i, v := range variations {
		snapshots[i] = models.VariationStock{
			ID:            v.ID,
			SKU:           v.SKU,
			StockQuantity: int(v.StockQuantity),
			StockStatus:   strings.ToLower(v.StockStatus),
			Price:         float64(v.Price),
			RegularPrice:  float64(v.RegularPrice),
		}
	}

	// Variable products report stock as the sum over their variations.
	if len(variations) > 0 {
		stockQuantity = 0
		for _, s := range snapshots {
			stockQuantity += s.StockQuantity
		}
		stockStatus = models.StockStatusOutOfStock
		if stockQuantity > 0 {
			stockStatus = models.StockStatusInStock
		}
	}

	price := float64(product.Price)
	if tier1, ok := pricing[TierKey12]; ok {
		price = tier1
	}

	categories, err := marshalField(product.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize categories: %w", err)
	}
	images, err := marshalField(product.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize images: %w", err)
	}
	variationIDs, err := marshalField(product.Variations)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize variation ids: %w", err)
	}
	variationsStock, err := marshalField(snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize variation stock: %w", err)
	}
	acfData, err := marshalField(product.ACF)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize acf data: %w", err)
	}
	metaData, err := marshalField(product.MetaData)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize meta data: %w", err)
	}

	row := &models.Product{
		ExternalID:       product.ID,
		Name:             product.Name,
		Status:           strings.ToLower(product.Status),
		Price:            price,
		RegularPrice:     float64(product.RegularPrice),
		StockQuantity:    stockQuantity,
		StockStatus:      stockStatus,
		Categories:       categories,
		Images:           images,
		ShortDescription: product.ShortDescription,
		Description:      product.Description,
		VariationIDs:     variationIDs,
		VariationsStock:  variationsStock,
		ACFData:          acfData,
		MetaData:         metaData,
		SKU:              product.SKU,
		UpdatedAt:        time.Now(),
	}

	if v, ok := pricing[TierKey12]; ok {
		row.Price12 = &v
	}
	if v, ok := pricing[TierKey36]; ok {
		row.Price36 = &v
	}
	if v, ok := pricing[TierKey7Mais]; ok {
		row.Price7Mais = &v
	}

	return row, nil
}

// ToCanonical rebuilds the frontend representation from a persisted row.
// It never fails: any malformed serialized field degrades to a minimal
// record instead of surfacing an error to the read path.
func (t *Transformer) ToCanonical(row *models.Product) models.CanonicalProduct {
	canonical, err := t.toCanonical(row)
	if err != nil {
		return t.degraded(row)
	}
	return canonical
}

func (t *Transformer) toCanonical(row *models.Product) (models.CanonicalProduct, error) {
	var categories []models.Category
	if err := unmarshalField(row.Categories, &categories); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse categories: %w", err)
	}

	var images []models.Image
	if err := unmarshalField(row.Images, &images); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse images: %w", err)
	}

	var variationIDs []int64
	if err := unmarshalField(row.VariationIDs, &variationIDs); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse variation ids: %w", err)
	}

	var variations []models.VariationStock
	if err := unmarshalField(row.VariationsStock, &variations); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse variation stock: %w", err)
	}

	var acf map[string]interface{}
	if err := unmarshalField(row.ACFData, &acf); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse acf data: %w", err)
	}

	var metaData []models.MetaEntry
	if err := unmarshalField(row.MetaData, &metaData); err != nil {
		return models.CanonicalProduct{}, fmt.Errorf("failed to parse meta data: %w", err)
	}

	// Pricing is re-derived from the stored blobs rather than read back
	// from the tier columns, so a re-sync of either source wins.
	pricing := ResolvePricing(acf, metaData)

	imageURLs := make([]string, len(images))
	for i, img := range images {
		imageURLs[i] = img.Src
	}

	return models.CanonicalProduct{
		ID:               identifier(row),
		Name:             row.Name,
		Price:            t.resolveDisplayPrice(row, pricing),
		RegularPrice:     row.RegularPrice,
		StockQuantity:    row.StockQuantity,
		StockStatus:      strings.ToLower(row.StockStatus),
		Status:           strings.ToLower(row.Status),
		Category:         t.primaryCategory(categories),
		Image:            mainImage(images),
		Images:           imageURLs,
		ShortDescription: row.ShortDescription,
		Description:      row.Description,
		SKU:              row.SKU,
		VariationIDs:     variationIDs,
		Variations:       variations,
		Pricing:          pricing,
	}, nil
}

// degraded is the minimal record served when a row's serialized fields
// cannot be parsed. It keeps the read path alive on bad data.
func (t *Transformer) degraded(row *models.Product) models.CanonicalProduct {
	name := row.Name
	if name == "" {
		name = "Unnamed product"
	}

	price := row.Price
	if price <= 0 {
		price = row.RegularPrice
	}
	if price < 0 {
		price = 0
	}

	return models.CanonicalProduct{
		ID:            identifier(row),
		Name:          name,
		Price:         price,
		RegularPrice:  row.RegularPrice,
		StockQuantity: row.StockQuantity,
		StockStatus:   strings.ToLower(row.StockStatus),
		Status:        strings.ToLower(row.Status),
		Category:      DefaultCategory,
		Image:         PlaceholderImage,
		Images:        []string{},
	}
}

// resolveDisplayPrice picks the served price, most specific source first:
// tier-1 rental price, then the persisted display price, then the regular
// price, then zero.
func (t *Transformer) resolveDisplayPrice(row *models.Product, pricing models.TieredPricing) float64 {
	if tier1, ok := pricing[TierKey12]; ok {
		return tier1
	}
	if row.Price > 0 {
		return row.Price
	}
	if row.RegularPrice > 0 {
		return row.RegularPrice
	}
	return 0
}

// primaryCategory returns the first category that is not the rental filter
// itself, defaulting when nothing else qualifies.
func (t *Transformer) primaryCategory(categories []models.Category) string {
	for _, c := range categories {
		if c.Slug != "" && c.Slug != t.rentalCategorySlug {
			return c.Slug
		}
	}
	return DefaultCategory
}

func mainImage(images []models.Image) string {
	if len(images) > 0 && images[0].Src != "" {
		return images[0].Src
	}
	return PlaceholderImage
}

// identifier never returns an empty string.
func identifier(row *models.Product) string {
	if row.ExternalID > 0 {
		return strconv.FormatInt(row.ExternalID, 10)
	}
	if row.ID != "" {
		return row.ID
	}
	return "0"
}

func marshalField(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalField(data string, out interface{}) error {
	if strings.TrimSpace(data) == "" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}
