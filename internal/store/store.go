// Package store is the read/write data layer feed generation runs against.
package store

import (
	"fmt"

	"feedforge/internal/models"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Feed loads a feed with its ordered mapping, rule and filter lists.
func (s *Store) Feed(id string) (models.Feed, error) {
	var feed models.Feed
	err := s.db.
		Preload("Mappings", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("CategoryMappings").
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Filters", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&feed, "id = ?", id).Error
	if err != nil {
		return models.Feed{}, err
	}
	return feed, nil
}

func (s *Store) SaveFeed(feed *models.Feed) error {
	return s.db.Omit("Mappings", "CategoryMappings", "Rules", "Filters").Save(feed).Error
}

// CountProducts counts feed-eligible products: everything except variations,
// which are emitted through their parent.
func (s *Store) CountProducts(onlyInStock bool) (int64, error) {
	var total int64
	query := s.db.Model(&models.Product{}).Where("type <> ?", models.ProductTypeVariation)
	if onlyInStock {
		query = query.Where("stock_status = ?", models.StockStatusInStock)
	}
	err := query.Count(&total).Error
	return total, err
}

func (s *Store) ProductPage(offset, limit int, onlyInStock bool) ([]models.Product, error) {
	var products []models.Product
	query := s.db.Where("type <> ?", models.ProductTypeVariation).Order("created_at ASC, id ASC")
	if onlyInStock {
		query = query.Where("stock_status = ?", models.StockStatusInStock)
	}
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("page products: %w", err)
	}
	return products, nil
}

func (s *Store) Variations(parentID string) ([]models.Product, error) {
	var variations []models.Product
	err := s.db.
		Where("parent_id = ? AND type = ?", parentID, models.ProductTypeVariation).
		Order("created_at ASC, id ASC").
		Find(&variations).Error
	return variations, err
}

func (s *Store) Category(id string) (models.Category, bool) {
	var cat models.Category
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		return models.Category{}, false
	}
	return cat, true
}

func (s *Store) Reviews(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *Store) ShippingZones() ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := s.db.Preload("Locations").Preload("Methods").Order("zone_order ASC").Find(&zones).Error
	return zones, err
}

func (s *Store) TaxRates() ([]models.TaxRate, error) {
	var rates []models.TaxRate
	err := s.db.Find(&rates).Error
	return rates, err
}
