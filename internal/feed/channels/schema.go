// Package channels holds the static per-channel schemas: which output
// attributes a marketplace recognizes, which internal fields they usually map
// to, and the file shape the serializer has to produce.
package channels

import "feedforge/internal/models"

type Taxonomy string

const (
	TaxonomyGoogleShopping Taxonomy = "google_shopping"
	TaxonomyYandex         Taxonomy = "yandex"
	TaxonomyHeureka        Taxonomy = "heureka"
	TaxonomyZbozi          Taxonomy = "zbozi"
	TaxonomyMall           Taxonomy = "mall"
	TaxonomySkroutz        Taxonomy = "skroutz"
	TaxonomyFruugo         Taxonomy = "fruugo"
	TaxonomyCustom         Taxonomy = "custom"
)

// Attribute is one recognized output field. Suggest names the internal field
// the attribute usually maps to when a mapping leaves its source blank.
type Attribute struct {
	Name     string
	Required bool
	Suggest  string
}

type Schema struct {
	Name          string
	Taxonomy      Taxonomy
	DefaultFormat models.FileFormat
	AllowParents  bool
	TitleLimit    int
	Attributes    []Attribute
}

// Attribute looks up an output attribute by name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Registry resolves channel names to schemas. It is built once and passed
// through the pipeline; unknown channels degrade to the generic schema.
type Registry struct {
	schemas map[string]*Schema
}

func NewRegistry() *Registry {
	r := &Registry{schemas: map[string]*Schema{}}
	for _, s := range builtinSchemas() {
		r.schemas[s.Name] = s
	}
	return r
}

// Lookup returns the channel schema, or the generic one when the channel is
// unknown so a bad channel name never hard-fails a feed.
func (r *Registry) Lookup(name string) *Schema {
	if s, ok := r.schemas[name]; ok {
		return s
	}
	return r.schemas["custom"]
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

func builtinSchemas() []*Schema {
	return []*Schema{
		{
			Name:          "google_shopping",
			Taxonomy:      TaxonomyGoogleShopping,
			DefaultFormat: models.FileFormatXML,
			TitleLimit:    150,
			Attributes: []Attribute{
				{Name: "g:id", Required: true, Suggest: "sku"},
				{Name: "g:title", Required: true, Suggest: "title"},
				{Name: "g:description", Required: true, Suggest: "description"},
				{Name: "g:link", Required: true, Suggest: "link"},
				{Name: "g:image_link", Required: true, Suggest: "image"},
				{Name: "g:additional_image_link", Suggest: "all_images"},
				{Name: "g:availability", Required: true, Suggest: "availability"},
				{Name: "g:price", Required: true, Suggest: "price"},
				{Name: "g:sale_price", Suggest: "sale_price"},
				{Name: "g:brand", Suggest: "brand"},
				{Name: "g:gtin", Suggest: "gtin"},
				{Name: "g:mpn", Suggest: "mpn"},
				{Name: "g:condition", Suggest: "condition"},
				{Name: "g:google_product_category", Suggest: "channel_category"},
				{Name: "g:product_type", Suggest: "categories"},
				{Name: "g:item_group_id", Suggest: "item_group_id"},
				{Name: "g:identifier_exists", Suggest: "identifier_exists"},
				{Name: "g:shipping", Suggest: "shipping"},
				{Name: "g:product_detail", Suggest: "product_detail"},
				{Name: "g:product_highlight", Suggest: "product_highlight"},
				{Name: "g:consumer_notice", Suggest: "consumer_notice"},
				{Name: "g:review", Suggest: "reviews"},
			},
		},
		{
			Name:          "yandex",
			Taxonomy:      TaxonomyYandex,
			DefaultFormat: models.FileFormatXML,
			Attributes: []Attribute{
				{Name: "id", Required: true, Suggest: "id"},
				{Name: "name", Required: true, Suggest: "title"},
				{Name: "description", Suggest: "description"},
				{Name: "url", Required: true, Suggest: "link"},
				{Name: "picture", Suggest: "image"},
				{Name: "price", Required: true, Suggest: "price"},
				{Name: "currencyId", Required: true, Suggest: "currency"},
				{Name: "categoryId", Required: true, Suggest: "channel_category"},
				{Name: "vendor", Suggest: "brand"},
				{Name: "vendorCode", Suggest: "mpn"},
				{Name: "barcode", Suggest: "gtin"},
			},
		},
		{
			Name:          "heureka",
			Taxonomy:      TaxonomyHeureka,
			DefaultFormat: models.FileFormatXML,
			Attributes: []Attribute{
				{Name: "ITEM_ID", Required: true, Suggest: "sku"},
				{Name: "PRODUCTNAME", Required: true, Suggest: "title"},
				{Name: "DESCRIPTION", Suggest: "description"},
				{Name: "URL", Required: true, Suggest: "link"},
				{Name: "IMGURL", Required: true, Suggest: "image"},
				{Name: "IMGURL_ALTERNATIVE", Suggest: "all_images"},
				{Name: "PRICE_VAT", Required: true, Suggest: "price"},
				{Name: "MANUFACTURER", Suggest: "brand"},
				{Name: "CATEGORYTEXT", Suggest: "categories"},
				{Name: "EAN", Suggest: "gtin"},
				{Name: "PRODUCTNO", Suggest: "mpn"},
				{Name: "DELIVERY_DATE", Suggest: "availability_days"},
				{Name: "ITEMGROUP_ID", Suggest: "item_group_id"},
			},
		},
		{
			Name:          "zbozi",
			Taxonomy:      TaxonomyZbozi,
			DefaultFormat: models.FileFormatXML,
			Attributes: []Attribute{
				{Name: "ITEM_ID", Required: true, Suggest: "sku"},
				{Name: "PRODUCTNAME", Required: true, Suggest: "title"},
				{Name: "DESCRIPTION", Suggest: "description"},
				{Name: "URL", Required: true, Suggest: "link"},
				{Name: "IMGURL", Required: true, Suggest: "image"},
				{Name: "PRICE_VAT", Required: true, Suggest: "price"},
				{Name: "MANUFACTURER", Suggest: "brand"},
				{Name: "CATEGORYTEXT", Suggest: "categories"},
				{Name: "EAN", Suggest: "gtin"},
				{Name: "PRODUCTNO", Suggest: "mpn"},
				{Name: "DELIVERY_DATE", Suggest: "availability_days"},
				{Name: "ITEMGROUP_ID", Suggest: "item_group_id"},
			},
		},
		{
			Name:          "mall",
			Taxonomy:      TaxonomyMall,
			DefaultFormat: models.FileFormatXML,
			AllowParents:  true,
			Attributes: []Attribute{
				{Name: "ID", Required: true, Suggest: "sku"},
				{Name: "TITLE", Required: true, Suggest: "title"},
				{Name: "DESCRIPTION", Suggest: "description"},
				{Name: "URL", Suggest: "link"},
				{Name: "MEDIA", Suggest: "image"},
				{Name: "PRICE", Required: true, Suggest: "price"},
				{Name: "CATEGORY_ID", Suggest: "channel_category"},
				{Name: "BRAND_ID", Suggest: "brand"},
				{Name: "BARCODE", Suggest: "gtin"},
				{Name: "AVAILABILITY", Suggest: "availability"},
				{Name: "VARIABLE_PARAMS", Suggest: "variable_params"},
			},
		},
		{
			Name:          "skroutz",
			Taxonomy:      TaxonomySkroutz,
			DefaultFormat: models.FileFormatXML,
			Attributes: []Attribute{
				{Name: "id", Required: true, Suggest: "sku"},
				{Name: "name", Required: true, Suggest: "title"},
				{Name: "link", Required: true, Suggest: "link"},
				{Name: "image", Required: true, Suggest: "image"},
				{Name: "category", Required: true, Suggest: "categories"},
				{Name: "price_with_vat", Required: true, Suggest: "price"},
				{Name: "manufacturer", Suggest: "brand"},
				{Name: "mpn", Suggest: "mpn"},
				{Name: "ean", Suggest: "gtin"},
				{Name: "availability", Required: true, Suggest: "availability"},
				{Name: "instock", Suggest: "instock_flag"},
			},
		},
		{
			Name:          "fruugo",
			Taxonomy:      TaxonomyFruugo,
			DefaultFormat: models.FileFormatCSV,
			Attributes: []Attribute{
				{Name: "ProductId", Required: true, Suggest: "item_group_id"},
				{Name: "SkuId", Required: true, Suggest: "sku"},
				{Name: "Title", Required: true, Suggest: "title"},
				{Name: "Description", Required: true, Suggest: "description"},
				{Name: "ProductUrl", Suggest: "link"},
				{Name: "ImageUrl", Required: true, Suggest: "image"},
				{Name: "NormalPriceWithVAT", Required: true, Suggest: "price"},
				{Name: "VATRate", Suggest: "tax_rate"},
				{Name: "Currency", Required: true, Suggest: "currency"},
				{Name: "Brand", Suggest: "brand"},
				{Name: "EAN", Suggest: "gtin"},
				{Name: "StockStatus", Required: true, Suggest: "availability"},
				{Name: "Category", Suggest: "categories"},
			},
		},
		{
			Name:          "custom",
			Taxonomy:      TaxonomyCustom,
			DefaultFormat: models.FileFormatCSV,
			AllowParents:  true,
			Attributes: []Attribute{
				{Name: "id", Suggest: "id"},
				{Name: "sku", Suggest: "sku"},
				{Name: "title", Suggest: "title"},
				{Name: "description", Suggest: "description"},
				{Name: "link", Suggest: "link"},
				{Name: "image", Suggest: "image"},
				{Name: "price", Suggest: "price"},
				{Name: "sale_price", Suggest: "sale_price"},
				{Name: "brand", Suggest: "brand"},
				{Name: "availability", Suggest: "availability"},
				{Name: "categories", Suggest: "categories"},
			},
		},
	}
}
