package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feed is a configured export job: one channel, one output file, plus the
// ordered mapping/rule/filter lists applied to every product.
type Feed struct {
	ID                string        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name              string        `json:"name" gorm:"not null"`
	Channel           string        `json:"channel" gorm:"not null"`
	FileFormat        FileFormat    `json:"file_format" gorm:"default:xml"`
	Delimiter         string        `json:"delimiter" gorm:"default:,"`
	TargetCountry     string        `json:"target_country"`
	Currency          string        `json:"currency" gorm:"default:USD"`
	UTMSource         string        `json:"utm_source"`
	UTMMedium         string        `json:"utm_medium"`
	UTMCampaign       string        `json:"utm_campaign"`
	VariationMode     VariationMode `json:"variation_mode" gorm:"default:all"`
	IncludeParents    bool          `json:"include_parents" gorm:"default:false"`
	StripFreeShipping bool          `json:"strip_free_shipping" gorm:"default:false"`
	StripLocalPickup  bool          `json:"strip_local_pickup" gorm:"default:false"`
	OnlyInStock       bool          `json:"only_in_stock" gorm:"default:false"`
	RefreshInterval   string        `json:"refresh_interval" gorm:"default:daily"`
	BatchSize         int           `json:"batch_size" gorm:"default:200"`
	Status            FeedStatus    `json:"status" gorm:"default:queued"`
	Offset            int           `json:"offset" gorm:"default:0"`
	Total             int           `json:"total" gorm:"default:0"`
	FilePath          string        `json:"file_path"`
	LastGenerated     *time.Time    `json:"last_generated"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Mappings         []AttributeMapping `json:"mappings" gorm:"foreignKey:FeedID"`
	CategoryMappings []CategoryMapping  `json:"category_mappings" gorm:"foreignKey:FeedID"`
	Rules            []Rule             `json:"rules" gorm:"foreignKey:FeedID"`
	Filters          []Filter           `json:"filters" gorm:"foreignKey:FeedID"`
}

type FileFormat string

const (
	FileFormatXML FileFormat = "xml"
	FileFormatCSV FileFormat = "csv"
	FileFormatTSV FileFormat = "tsv"
	FileFormatTXT FileFormat = "txt"
)

type FeedStatus string

const (
	FeedStatusQueued     FeedStatus = "queued"
	FeedStatusProcessing FeedStatus = "processing"
	FeedStatusReady      FeedStatus = "ready"
	FeedStatusCancelled  FeedStatus = "cancelled"
	FeedStatusError      FeedStatus = "error"
)

type VariationMode string

const (
	VariationModeAll         VariationMode = "all"
	VariationModeDefaultOnly VariationMode = "default_only"
	VariationModeLowestPrice VariationMode = "lowest_price"
)

// AttributeMapping maps one output attribute to a source field, optionally
// decorated with a prefix/suffix. When Static is set, SourceField holds a
// literal value instead of a field name.
type AttributeMapping struct {
	ID          string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedID      string `json:"feed_id" gorm:"type:uuid;index;not null"`
	Position    int    `json:"position" gorm:"not null"`
	Attribute   string `json:"attribute" gorm:"not null"`
	SourceField string `json:"source_field"`
	Prefix      string `json:"prefix"`
	Suffix      string `json:"suffix"`
	Static      bool   `json:"static" gorm:"default:false"`
}

type CategoryMapping struct {
	ID              string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedID          string `json:"feed_id" gorm:"type:uuid;index;not null"`
	CategoryID      string `json:"category_id" gorm:"type:uuid;not null"`
	ChannelCategory string `json:"channel_category" gorm:"not null"`
}

// Rule rewrites Target (or Attribute itself) when Condition(Attribute,
// Criteria) holds. Rules run in Position order with no isolation: later rules
// see earlier rewrites.
type Rule struct {
	ID            string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedID        string `json:"feed_id" gorm:"type:uuid;index;not null"`
	Position      int    `json:"position" gorm:"not null"`
	Attribute     string `json:"attribute" gorm:"not null"`
	Condition     string `json:"condition" gorm:"not null"`
	Criteria      string `json:"criteria"`
	Target        string `json:"target"`
	NewValue      string `json:"new_value"`
	CaseSensitive bool   `json:"case_sensitive" gorm:"default:false"`
}

type Filter struct {
	ID            string     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedID        string     `json:"feed_id" gorm:"type:uuid;index;not null"`
	Position      int        `json:"position" gorm:"not null"`
	Attribute     string     `json:"attribute" gorm:"not null"`
	Condition     string     `json:"condition" gorm:"not null"`
	Criteria      string     `json:"criteria"`
	Mode          FilterMode `json:"mode" gorm:"default:exclude"`
	CaseSensitive bool       `json:"case_sensitive" gorm:"default:false"`
}

type FilterMode string

const (
	FilterModeIncludeOnly FilterMode = "include_only"
	FilterModeExclude     FilterMode = "exclude"
)

func (f *Feed) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

func (m *AttributeMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (m *CategoryMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (r *Rule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (f *Filter) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
