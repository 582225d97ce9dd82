package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID               string            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID       string            `json:"external_id" gorm:"not null"`
	ParentID         *string           `json:"parent_id" gorm:"type:uuid;index"`
	Type             ProductType       `json:"type" gorm:"default:simple"`
	SKU              string            `json:"sku" gorm:"unique;not null"`
	Title            string            `json:"title" gorm:"not null"`
	Description      *string           `json:"description"`
	ShortDescription *string           `json:"short_description"`
	Brand            *string           `json:"brand"`
	GTIN             *string           `json:"gtin"`
	MPN              *string           `json:"mpn"`
	Condition        string            `json:"condition" gorm:"default:new"`
	Link             string            `json:"link"`
	RegularPrice     float64           `json:"regular_price" gorm:"type:decimal(10,2)"`
	SalePrice        *float64          `json:"sale_price" gorm:"type:decimal(10,2)"`
	SaleStart        *time.Time        `json:"sale_start"`
	SaleEnd          *time.Time        `json:"sale_end"`
	Currency         string            `json:"currency" gorm:"default:USD"`
	TaxClass         string            `json:"tax_class" gorm:"default:standard"`
	StockStatus      StockStatus       `json:"stock_status" gorm:"default:instock"`
	StockQuantity    *int              `json:"stock_quantity"`
	Weight           *float64          `json:"weight"`
	ShippingClass    *string           `json:"shipping_class"`
	ImageURL         string            `json:"image_url"`
	GalleryImages    []string          `json:"gallery_images" gorm:"type:jsonb;serializer:json"`
	CategoryIDs      []string          `json:"category_ids" gorm:"type:jsonb;serializer:json"`
	Tags             []string          `json:"tags" gorm:"type:jsonb;serializer:json"`
	Attributes       map[string]string `json:"attributes" gorm:"type:jsonb;serializer:json"`
	DefaultAttrs     map[string]string `json:"default_attributes" gorm:"type:jsonb;serializer:json"`
	RatingCount      int               `json:"rating_count"`
	RatingAverage    float64           `json:"rating_average"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type ProductType string

const (
	ProductTypeSimple    ProductType = "simple"
	ProductTypeVariable  ProductType = "variable"
	ProductTypeVariation ProductType = "variation"
)

type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
	StockStatusPreorder    StockStatus = "preorder"
)

// Category is a taxonomy term; ParentID links terms into the tree the
// resolver flattens into breadcrumb paths.
type Category struct {
	ID       string  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string  `json:"name" gorm:"not null"`
	ParentID *string `json:"parent_id" gorm:"type:uuid;index"`
}

type Review struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID string    `json:"product_id" gorm:"type:uuid;index;not null"`
	Reviewer  string    `json:"reviewer"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
