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

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		external_id TEXT NOT NULL,
		parent_id UUID,
		type TEXT DEFAULT 'simple',
		sku TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		short_description TEXT,
		brand TEXT,
		gtin TEXT,
		mpn TEXT,
		condition TEXT DEFAULT 'new',
		link TEXT,
		regular_price DECIMAL(10,2),
		sale_price DECIMAL(10,2),
		sale_start TIMESTAMPTZ,
		sale_end TIMESTAMPTZ,
		currency TEXT DEFAULT 'USD',
		tax_class TEXT DEFAULT 'standard',
		stock_status TEXT DEFAULT 'instock',
		stock_quantity INTEGER,
		weight DECIMAL(10,3),
		shipping_class TEXT,
		image_url TEXT,
		gallery_images TEXT,
		category_ids TEXT,
		tags TEXT,
		attributes TEXT,
		default_attrs TEXT,
		rating_count INTEGER DEFAULT 0,
		rating_average DECIMAL(3,2) DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		parent_id UUID
	);

	CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL,
		reviewer TEXT,
		rating INTEGER,
		title TEXT,
		content TEXT,
		approved BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS feeds (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		channel TEXT NOT NULL,
		file_format TEXT DEFAULT 'xml',
		delimiter TEXT DEFAULT ',',
		target_country TEXT,
		currency TEXT DEFAULT 'USD',
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		variation_mode TEXT DEFAULT 'all',
		include_parents BOOLEAN DEFAULT false,
		strip_free_shipping BOOLEAN DEFAULT false,
		strip_local_pickup BOOLEAN DEFAULT false,
		only_in_stock BOOLEAN DEFAULT false,
		refresh_interval TEXT DEFAULT 'daily',
		batch_size INTEGER DEFAULT 200,
		status TEXT DEFAULT 'queued',
		"offset" INTEGER DEFAULT 0,
		total INTEGER DEFAULT 0,
		file_path TEXT,
		last_generated TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attribute_mappings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		feed_id UUID NOT NULL,
		position INTEGER NOT NULL,
		attribute TEXT NOT NULL,
		source_field TEXT,
		prefix TEXT,
		suffix TEXT,
		static BOOLEAN DEFAULT false
	);

	CREATE TABLE IF NOT EXISTS category_mappings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		feed_id UUID NOT NULL,
		category_id UUID NOT NULL,
		channel_category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		feed_id UUID NOT NULL,
		position INTEGER NOT NULL,
		attribute TEXT NOT NULL,
		condition TEXT NOT NULL,
		criteria TEXT,
		target TEXT,
		new_value TEXT,
		case_sensitive BOOLEAN DEFAULT false
	);

	CREATE TABLE IF NOT EXISTS filters (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		feed_id UUID NOT NULL,
		position INTEGER NOT NULL,
		attribute TEXT NOT NULL,
		condition TEXT NOT NULL,
		criteria TEXT,
		mode TEXT DEFAULT 'exclude',
		case_sensitive BOOLEAN DEFAULT false
	);

	CREATE TABLE IF NOT EXISTS shipping_zones (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		zone_order INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS shipping_zone_locations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		zone_id UUID NOT NULL,
		country TEXT NOT NULL,
		state TEXT,
		postcode TEXT
	);

	CREATE TABLE IF NOT EXISTS shipping_methods (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		zone_id UUID NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		enabled BOOLEAN DEFAULT true,
		cost TEXT,
		class_costs TEXT,
		free_minimum DECIMAL(10,2) DEFAULT 0,
		taxable BOOLEAN DEFAULT true
	);

	CREATE TABLE IF NOT EXISTS tax_rates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		country TEXT NOT NULL,
		tax_class TEXT DEFAULT 'standard',
		rate DECIMAL(8,4) NOT NULL,
		shipping BOOLEAN DEFAULT true
	);
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
