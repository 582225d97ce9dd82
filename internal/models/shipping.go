package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingZone groups locations with the methods that serve them, mirroring
// the store's shipping configuration. Zones are read-only inputs to feed
// generation; the resolver never mutates them.
type ShippingZone struct {
	ID        string                 `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string                 `json:"name" gorm:"not null"`
	ZoneOrder int                    `json:"zone_order" gorm:"default:0"`
	Locations []ShippingZoneLocation `json:"locations" gorm:"foreignKey:ZoneID"`
	Methods   []ShippingMethod       `json:"methods" gorm:"foreignKey:ZoneID"`
}

type ShippingZoneLocation struct {
	ID       string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ZoneID   string `json:"zone_id" gorm:"type:uuid;index;not null"`
	Country  string `json:"country" gorm:"not null"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type ShippingMethod struct {
	ID          string            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ZoneID      string            `json:"zone_id" gorm:"type:uuid;index;not null"`
	Type        ShippingType      `json:"type" gorm:"not null"`
	Title       string            `json:"title" gorm:"not null"`
	Enabled     bool              `json:"enabled" gorm:"default:true"`
	Cost        string            `json:"cost"`
	ClassCosts  map[string]string `json:"class_costs" gorm:"type:jsonb;serializer:json"`
	FreeMinimum float64           `json:"free_minimum" gorm:"type:decimal(10,2)"`
	Taxable     bool              `json:"taxable" gorm:"default:true"`
}

type ShippingType string

const (
	ShippingTypeFlatRate     ShippingType = "flat_rate"
	ShippingTypeFreeShipping ShippingType = "free_shipping"
	ShippingTypeLocalPickup  ShippingType = "local_pickup"
	ShippingTypeTableRate    ShippingType = "table_rate"
)

// TaxRate is one row of the store tax table. Shipping marks whether the rate
// also applies to shipping lines.
type TaxRate struct {
	ID       string  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Country  string  `json:"country" gorm:"not null"`
	TaxClass string  `json:"tax_class" gorm:"default:standard"`
	Rate     float64 `json:"rate" gorm:"type:decimal(8,4);not null"`
	Shipping bool    `json:"shipping" gorm:"default:true"`
}

func (z *ShippingZone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == "" {
		z.ID = uuid.New().String()
	}
	return nil
}

func (l *ShippingZoneLocation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (m *ShippingMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (t *TaxRate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
