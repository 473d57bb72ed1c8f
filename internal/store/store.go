package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MarcosRG/bikesul-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = gorm.ErrRecordNotFound

// Store is the catalog gateway. Category membership is resolved against the
// serialized categories column, not a join table, to stay compatible with
// the existing denormalized rows.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertByExternalID inserts or refreshes a row keyed on external_id.
// Overlapping syncs resolve as last write wins.
func (s *Store) UpsertByExternalID(product *models.Product) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "status", "price", "regular_price",
			"stock_quantity", "stock_status", "categories", "images",
			"short_description", "description", "variation_ids",
			"variations_stock", "acf_data", "meta_data", "sku",
			"price_1_2", "price_3_6", "price_7_mais", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", product.ExternalID, err)
	}
	return nil
}

// ListByCategory returns rows whose serialized category list contains the
// given category id, optionally narrowed by status and by a category slug.
// The SQL LIKE is a coarse prefilter over the JSON text; membership is
// confirmed against the deserialized list before a row is returned.
func (s *Store) ListByCategory(categoryID int64, status, slug string) ([]models.Product, error) {
	query := s.db.Model(&models.Product{}).
		Where("categories LIKE ?", containmentPattern(categoryID))

	if status != "" {
		query = query.Where("status = ?", strings.ToLower(status))
	}

	var rows []models.Product
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query products for category %d: %w", categoryID, err)
	}

	matched := rows[:0]
	for _, row := range rows {
		if !categoryListContains(row.Categories, categoryID, slug) {
			continue
		}
		matched = append(matched, row)
	}

	return matched, nil
}

// GetByExternalOrRowID looks a product up by its numeric external id,
// falling back to the internal row id.
func (s *Store) GetByExternalOrRowID(id string) (*models.Product, error) {
	var row models.Product

	if externalID, err := strconv.ParseInt(id, 10, 64); err == nil {
		if err := s.db.First(&row, "external_id = ?", externalID).Error; err == nil {
			return &row, nil
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
		}
	}

	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	return &row, nil
}

// CountByCategory reports how many rows carry the category id.
func (s *Store) CountByCategory(categoryID int64) (int64, error) {
	var count int64
	err := s.db.Model(&models.Product{}).
		Where("categories LIKE ?", containmentPattern(categoryID)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products for category %d: %w", categoryID, err)
	}
	return count, nil
}

// Ping verifies store connectivity.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CategoryMembership reports whether a serialized category list contains
// the given id, and whether the list was parseable at all. Callers decide
// what an unparseable list means for them.
func CategoryMembership(serialized string, categoryID int64) (member, parseable bool) {
	var categories []models.Category
	if err := json.Unmarshal([]byte(serialized), &categories); err != nil {
		return false, false
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return true, true
		}
	}
	return false, true
}

// containmentPattern matches the id field of one serialized category
// element. The trailing comma keeps 319 from matching 3199; the marshaler
// always emits id as the first field of an element.
func containmentPattern(categoryID int64) string {
	return fmt.Sprintf(`%%"id":%d,%%`, categoryID)
}

func categoryListContains(serialized string, categoryID int64, slug string) bool {
	var categories []models.Category
	if err := json.Unmarshal([]byte(serialized), &categories); err != nil {
		// Unparseable rows are still served (degraded) by id lookups, but
		// membership cannot be confirmed for list queries.
		return false
	}

	foundID := false
	foundSlug := slug == ""
	for _, c := range categories {
		if c.ID == categoryID {
			foundID = true
		}
		if slug != "" && c.Slug == slug {
			foundSlug = true
		}
	}
	return foundID && foundSlug
}
