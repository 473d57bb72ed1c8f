package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One denormalized table: list/map-shaped fields live in TEXT columns
	// as opaque JSON and only need to round-trip.
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		external_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT,
		price DECIMAL(10,2) DEFAULT 0,
		regular_price DECIMAL(10,2) DEFAULT 0,
		stock_quantity INTEGER DEFAULT 0,
		stock_status TEXT,
		categories TEXT,
		images TEXT,
		short_description TEXT,
		description TEXT,
		variation_ids TEXT,
		variations_stock TEXT,
		acf_data TEXT,
		meta_data TEXT,
		sku TEXT,
		price_1_2 DECIMAL(10,2),
		price_3_6 DECIMAL(10,2),
		price_7_mais DECIMAL(10,2),
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_products_external_id ON products (external_id);
	CREATE INDEX IF NOT EXISTS idx_products_status ON products (status);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
