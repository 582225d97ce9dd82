package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	google := r.Lookup("google_shopping")
	require.NotNil(t, google)
	assert.Equal(t, TaxonomyGoogleShopping, google.Taxonomy)
	assert.Equal(t, 150, google.TitleLimit)
	assert.False(t, google.AllowParents)

	// unknown channels degrade to the generic schema
	fallback := r.Lookup("ebay")
	require.NotNil(t, fallback)
	assert.Equal(t, TaxonomyCustom, fallback.Taxonomy)

	assert.Contains(t, r.Names(), "heureka")
	assert.Contains(t, r.Names(), "fruugo")
}

func TestSchemaAttributeLookup(t *testing.T) {
	s := NewRegistry().Lookup("google_shopping")

	attr, ok := s.Attribute("g:price")
	require.True(t, ok)
	assert.True(t, attr.Required)
	assert.Equal(t, "price", attr.Suggest)

	_, ok = s.Attribute("g:nonexistent")
	assert.False(t, ok)
}

func TestAvailabilityPerTaxonomy(t *testing.T) {
	assert.Equal(t, "in_stock", Availability(models.StockStatusInStock, TaxonomyGoogleShopping))
	assert.Equal(t, "out_of_stock", Availability(models.StockStatusOutOfStock, TaxonomyGoogleShopping))
	assert.Equal(t, "backorder", Availability(models.StockStatusOnBackorder, TaxonomyGoogleShopping))
	assert.Equal(t, "preorder", Availability(models.StockStatusPreorder, TaxonomyGoogleShopping))

	assert.Equal(t, "INSTOCK", Availability(models.StockStatusInStock, TaxonomyFruugo))
	assert.Equal(t, "OUTOFSTOCK", Availability(models.StockStatusOutOfStock, TaxonomyFruugo))

	assert.Equal(t, "true", Availability(models.StockStatusInStock, TaxonomyYandex))
	assert.Equal(t, "false", Availability(models.StockStatusOutOfStock, TaxonomyYandex))

	assert.Equal(t, "in stock", Availability(models.StockStatusInStock, TaxonomyHeureka))
	assert.Equal(t, "out of stock", Availability(models.StockStatusOutOfStock, TaxonomyCustom))
}

func TestAvailabilityDays(t *testing.T) {
	assert.Equal(t, "0", AvailabilityDays(models.StockStatusInStock))
	assert.Equal(t, "7", AvailabilityDays(models.StockStatusOnBackorder))
	assert.Equal(t, "7", AvailabilityDays(models.StockStatusPreorder))
	assert.Equal(t, "", AvailabilityDays(models.StockStatusOutOfStock))
}

func TestMapStaticMapping(t *testing.T) {
	schema := NewRegistry().Lookup("google_shopping")
	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "g:condition", SourceField: "new", Static: true},
	}, schema, record.Record{})

	assert.Equal(t, []string{"g:condition"}, mapped.Order)
	assert.Equal(t, "new", mapped.Fields.GetString("g:condition"))
}

func TestMapBlankSourceFallsBackToSuggestion(t *testing.T) {
	schema := NewRegistry().Lookup("google_shopping")
	rec := record.Record{"title": record.String("Blue Shirt")}

	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "g:title"},
	}, schema, rec)

	assert.Equal(t, "Blue Shirt", mapped.Fields.GetString("g:title"))
}

func TestMapPrefixSuffixSkipEmpty(t *testing.T) {
	schema := NewRegistry().Lookup("custom")
	rec := record.Record{
		"brand": record.String("ACME"),
		"sku":   record.String(""),
	}

	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "brand", SourceField: "brand", Prefix: "by "},
		{Position: 2, Attribute: "sku", SourceField: "sku", Prefix: "SKU-"},
	}, schema, rec)

	assert.Equal(t, "by ACME", mapped.Fields.GetString("brand"))
	// decoration never turns an empty value into a non-empty one
	assert.Equal(t, "", mapped.Fields.GetString("sku"))
}

func TestMapOrderFollowsPosition(t *testing.T) {
	schema := NewRegistry().Lookup("custom")
	rec := record.Record{
		"title": record.String("x"),
		"sku":   record.String("y"),
	}

	mapped := Map([]models.AttributeMapping{
		{Position: 2, Attribute: "title", SourceField: "title"},
		{Position: 1, Attribute: "sku", SourceField: "sku"},
	}, schema, rec)

	assert.Equal(t, []string{"sku", "title"}, mapped.Order)
}

func TestMapStructuredFieldsStayStructured(t *testing.T) {
	schema := NewRegistry().Lookup("google_shopping")
	row := record.NewRow()
	row.Set("country", "CZ")
	row.Set("price", "5.00")
	rec := record.Record{"shipping": record.Rows([]record.Row{row})}

	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "g:shipping", SourceField: "shipping"},
	}, schema, rec)

	v := mapped.Fields.Get("g:shipping")
	require.Equal(t, record.KindRows, v.Kind)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "CZ", v.Rows[0].Get("country"))
}

func TestMapFlattensListsForPlainAttributes(t *testing.T) {
	schema := NewRegistry().Lookup("google_shopping")
	rec := record.Record{"all_images": record.List([]string{"a.jpg", "b.jpg"})}

	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "g:additional_image_link", SourceField: "all_images"},
	}, schema, rec)

	assert.Equal(t, "a.jpg||b.jpg", mapped.Fields.GetString("g:additional_image_link"))
}

func TestMapMetaCarriesOfferAttributes(t *testing.T) {
	schema := NewRegistry().Lookup("yandex")
	rec := record.Record{
		"id":            record.String("123"),
		"item_group_id": record.String("77"),
		"availability":  record.String("true"),
	}

	mapped := Map(nil, schema, rec)
	assert.Equal(t, "123", mapped.Meta["id"])
	assert.Equal(t, "77", mapped.Meta["group_id"])
	assert.Equal(t, "true", mapped.Meta["available"])
}

func TestMapSkipsUnmappableAttribute(t *testing.T) {
	schema := NewRegistry().Lookup("custom")
	mapped := Map([]models.AttributeMapping{
		{Position: 1, Attribute: "made_up_column"},
		{Position: 2, Attribute: ""},
	}, schema, record.Record{})

	assert.Empty(t, mapped.Order)
}
