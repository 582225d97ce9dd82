package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/record"
	"feedforge/internal/feed/shipping"
	"feedforge/internal/models"
)

type fakeSource struct {
	categories map[string]models.Category
	reviews    map[string][]models.Review
}

func (s *fakeSource) Category(id string) (models.Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

func (s *fakeSource) Reviews(productID string) ([]models.Review, error) {
	return s.reviews[productID], nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func testSchema() *channels.Schema {
	return channels.NewRegistry().Lookup("google_shopping")
}

func simpleProduct() models.Product {
	return models.Product{
		ID:           "p-1",
		ExternalID:   "101",
		SKU:          "SHIRT-1",
		Title:        "Blue Shirt",
		Type:         models.ProductTypeSimple,
		Condition:    "new",
		Link:         "https://shop.example/shirt",
		RegularPrice: 100,
		Currency:     "EUR",
		TaxClass:     "standard",
		StockStatus:  models.StockStatusInStock,
		ImageURL:     "https://shop.example/shirt.jpg",
	}
}

func newTestResolver(src *fakeSource, taxes []models.TaxRate) *Resolver {
	if src == nil {
		src = &fakeSource{}
	}
	return New(src, nil, taxes)
}

func TestResolveCoreFields(t *testing.T) {
	r := newTestResolver(nil, nil)
	rec, err := r.Resolve(simpleProduct(), nil, models.Feed{Currency: "EUR"}, testSchema())
	require.NoError(t, err)

	assert.Equal(t, "101", rec.GetString("id"))
	assert.Equal(t, "SHIRT-1", rec.GetString("sku"))
	assert.Equal(t, "Blue Shirt", rec.GetString("title"))
	assert.Equal(t, "new", rec.GetString("condition"))
	assert.Equal(t, "simple", rec.GetString("product_type"))
	assert.Equal(t, "https://shop.example/shirt", rec.GetString("link"))
	assert.Equal(t, "in_stock", rec.GetString("availability"))
	assert.Equal(t, "Y", rec.GetString("instock_flag"))
}

func TestResolveSanitizesAndTruncatesTitle(t *testing.T) {
	p := simpleProduct()
	p.Title = "<b>Very Long Title</b>"
	r := newTestResolver(nil, nil)

	schema := &channels.Schema{Taxonomy: channels.TaxonomyGoogleShopping, TitleLimit: 9}
	rec, err := r.Resolve(p, nil, models.Feed{}, schema)
	require.NoError(t, err)
	assert.Equal(t, "Very Long", rec.GetString("title"))
}

func TestResolvePriceFamily(t *testing.T) {
	p := simpleProduct()
	p.RegularPrice = 24.99
	p.SalePrice = floatPtr(19.99)
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(p, nil, models.Feed{Currency: "EUR"}, testSchema())
	require.NoError(t, err)

	assert.Equal(t, "19.99", rec.GetString("price"))
	assert.Equal(t, "24.99", rec.GetString("regular_price"))
	assert.Equal(t, "19.99", rec.GetString("sale_price"))
	assert.Equal(t, "24.99", rec.GetString("price_forced"))
	assert.Equal(t, "19,99", rec.GetString("price_localized"))
	assert.Equal(t, "19.99 EUR", rec.GetString("price_with_currency"))
	assert.NotEmpty(t, rec.GetString("sale_price_effective_date"))
}

func TestResolveExpiredSaleIgnored(t *testing.T) {
	p := simpleProduct()
	p.SalePrice = floatPtr(50)
	p.SaleEnd = timePtr(time.Now().Add(-24 * time.Hour))
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(p, nil, models.Feed{Currency: "EUR"}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "100.00", rec.GetString("price"))
	assert.Equal(t, "", rec.GetString("sale_price"))
}

func TestResolveNetPriceStripsTax(t *testing.T) {
	p := simpleProduct()
	p.RegularPrice = 121
	taxes := []models.TaxRate{{Country: "CZ", TaxClass: "standard", Rate: 21}}
	r := newTestResolver(nil, taxes)

	rec, err := r.Resolve(p, nil, models.Feed{TargetCountry: "CZ", Currency: "CZK"}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "121.00", rec.GetString("price"))
	assert.Equal(t, "100.00", rec.GetString("net_price"))
	assert.Equal(t, "21.00", rec.GetString("tax_rate"))
}

func TestResolveIdentifierExists(t *testing.T) {
	r := newTestResolver(nil, nil)

	p := simpleProduct()
	p.Brand = strPtr("ACME")
	p.GTIN = strPtr("1234567890123")
	rec, err := r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "yes", rec.GetString("identifier_exists"))

	p = simpleProduct()
	rec, err = r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "no", rec.GetString("identifier_exists"))

	// brand alone is not enough
	p = simpleProduct()
	p.Brand = strPtr("ACME")
	rec, err = r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "no", rec.GetString("identifier_exists"))
}

func TestResolveBarcodeFallbackFromAttributes(t *testing.T) {
	p := simpleProduct()
	p.Attributes = map[string]string{"EAN": "8591234567890"}
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "8591234567890", rec.GetString("gtin"))

	// too short to be a GTIN
	p.Attributes = map[string]string{"ean": "12345"}
	rec, err = r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "", rec.GetString("gtin"))
}

func TestResolveVariationFields(t *testing.T) {
	parent := simpleProduct()
	parent.ID = "p-parent"
	parent.ExternalID = "500"
	parent.SKU = "SHIRT"
	parent.Type = models.ProductTypeVariable

	v := simpleProduct()
	v.ID = "p-var"
	v.ExternalID = "501"
	v.SKU = "SHIRT-RED"
	v.Type = models.ProductTypeVariation
	v.Attributes = map[string]string{"Colour": "Red"}

	r := newTestResolver(nil, nil)
	rec, err := r.Resolve(v, &parent, models.Feed{}, testSchema())
	require.NoError(t, err)

	assert.Equal(t, "500", rec.GetString("item_group_id"))
	assert.Equal(t, "SHIRT", rec.GetString("parent_sku"))
	assert.Equal(t, "Blue Shirt", rec.GetString("mother_title"))
	assert.Equal(t, []string{"Colour"}, rec.Get("variable_params").List)
}

func TestResolveOrphanVariation(t *testing.T) {
	v := simpleProduct()
	v.Type = models.ProductTypeVariation
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(v, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "101", rec.GetString("item_group_id"))
	assert.Equal(t, "9999", rec.GetString("variation_count"))
}

func TestResolveVariationInheritsDescriptions(t *testing.T) {
	parent := simpleProduct()
	parent.Type = models.ProductTypeVariable
	parent.Description = strPtr("Parent description")
	parent.Brand = strPtr("ACME")

	v := simpleProduct()
	v.Type = models.ProductTypeVariation
	v.MPN = strPtr("M-1")

	r := newTestResolver(nil, nil)
	rec, err := r.Resolve(v, &parent, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "Parent description", rec.GetString("description"))
	assert.Equal(t, "ACME", rec.GetString("brand"))
	assert.Equal(t, "yes", rec.GetString("identifier_exists"))
}

func TestResolveCategoryBreadcrumb(t *testing.T) {
	src := &fakeSource{categories: map[string]models.Category{
		"c1": {ID: "c1", Name: "Clothing"},
		"c2": {ID: "c2", Name: "Shirts", ParentID: strPtr("c1")},
	}}
	p := simpleProduct()
	p.CategoryIDs = []string{"c2"}

	r := newTestResolver(src, nil)
	rec, err := r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "Clothing > Shirts", rec.GetString("categories"))
	assert.Equal(t, []string{"Shirts"}, rec.Get("raw_categories").List)
}

func TestResolveChannelCategoryMapping(t *testing.T) {
	src := &fakeSource{categories: map[string]models.Category{
		"c1": {ID: "c1", Name: "Shirts"},
	}}
	p := simpleProduct()
	p.CategoryIDs = []string{"c1"}
	feed := models.Feed{CategoryMappings: []models.CategoryMapping{
		{CategoryID: "c1", ChannelCategory: "Apparel & Accessories > Shirts"},
	}}

	r := newTestResolver(src, nil)
	rec, err := r.Resolve(p, nil, feed, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "Apparel & Accessories > Shirts", rec.GetString("channel_category"))
}

func TestResolveImages(t *testing.T) {
	p := simpleProduct()
	p.GalleryImages = []string{"g1.jpg", "g2.jpg"}
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/shirt.jpg", rec.GetString("image"))
	assert.Equal(t, "g1.jpg", rec.GetString("image_2"))
	assert.Equal(t, "g2.jpg", rec.GetString("image_3"))
	assert.Equal(t, []string{"https://shop.example/shirt.jpg", "g1.jpg", "g2.jpg"}, rec.Get("all_images").List)
}

func TestResolveCustomAttributes(t *testing.T) {
	p := simpleProduct()
	p.Attributes = map[string]string{"Material": "Cotton", "Washing Temp": "40"}
	p.Tags = []string{"summer", "sale"}
	p.RatingCount = 12
	p.RatingAverage = 4.5

	r := newTestResolver(nil, nil)
	rec, err := r.Resolve(p, nil, models.Feed{}, testSchema())
	require.NoError(t, err)

	assert.Equal(t, "Cotton", rec.GetString("material"))
	assert.Equal(t, "40", rec.GetString("washing_temp"))
	assert.Equal(t, []string{"summer", "sale"}, rec.Get("product_tag").List)
	assert.Equal(t, "12", rec.GetString("rating_count"))
	assert.Equal(t, "4.50", rec.GetString("rating_average"))

	details := rec.Get("product_detail")
	require.Equal(t, record.KindRows, details.Kind)
	require.Len(t, details.Rows, 2)
	assert.Equal(t, "Attributes", details.Rows[0].Get("section"))
	assert.Equal(t, "Material", details.Rows[0].Get("attribute"))
}

func TestResolveReviewRows(t *testing.T) {
	src := &fakeSource{reviews: map[string][]models.Review{
		"p-1": {
			{Reviewer: "Jana", Rating: 5, Title: "Great", Content: "Fits well", Approved: true, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Reviewer: "Spam", Rating: 5, Content: "visit https://spam.example", Approved: true},
			{Reviewer: "Pending", Rating: 4, Content: "ok", Approved: false},
			{Reviewer: "Unrated", Rating: 0, Content: "meh", Approved: true},
		},
	}}
	r := newTestResolver(src, nil)

	rec, err := r.Resolve(simpleProduct(), nil, models.Feed{}, testSchema())
	require.NoError(t, err)

	reviews := rec.Get("reviews")
	require.Equal(t, record.KindRows, reviews.Kind)
	require.Len(t, reviews.Rows, 1)
	assert.Equal(t, "Jana", reviews.Rows[0].Get("reviewer"))
	assert.Equal(t, "5", reviews.Rows[0].Get("rating"))
	assert.Equal(t, "2026-03-01", reviews.Rows[0].Get("date"))
}

func TestResolveShippingRows(t *testing.T) {
	zones := []models.ShippingZone{{
		Locations: []models.ShippingZoneLocation{{Country: "CZ"}},
		Methods: []models.ShippingMethod{
			{Type: models.ShippingTypeFlatRate, Title: "Flat rate", Enabled: true, Cost: "10", Taxable: true},
		},
	}}
	taxes := []models.TaxRate{{Country: "CZ", TaxClass: "standard", Rate: 21, Shipping: true}}
	r := New(&fakeSource{}, shipping.NewResolver(zones, taxes, nil), taxes)

	rec, err := r.Resolve(simpleProduct(), nil, models.Feed{TargetCountry: "CZ"}, testSchema())
	require.NoError(t, err)

	rows := rec.Get("shipping")
	require.Equal(t, record.KindRows, rows.Kind)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, "CZ", rows.Rows[0].Get("country"))
	assert.Equal(t, "Flat rate", rows.Rows[0].Get("service"))
	assert.Equal(t, "12.10", rows.Rows[0].Get("price"))
}

func TestResolveLinkWithUTM(t *testing.T) {
	feed := models.Feed{UTMSource: "google", UTMMedium: "cpc", UTMCampaign: "spring"}
	r := newTestResolver(nil, nil)

	rec, err := r.Resolve(simpleProduct(), nil, feed, testSchema())
	require.NoError(t, err)

	link := rec.GetString("link")
	assert.Contains(t, link, "utm_source=google")
	assert.Contains(t, link, "utm_medium=cpc")
	assert.Contains(t, link, "utm_campaign=spring")
}

func TestResolveLinkWithoutUTMUnchanged(t *testing.T) {
	r := newTestResolver(nil, nil)
	rec, err := r.Resolve(simpleProduct(), nil, models.Feed{}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/shirt", rec.GetString("link"))
}

func TestAttributeKey(t *testing.T) {
	assert.Equal(t, "washing_temp", attributeKey("Washing Temp"))
	assert.Equal(t, "size_eu", attributeKey("  Size-EU "))
	assert.Equal(t, "", attributeKey("čšž"))
	assert.Equal(t, "a", attributeKey("_a_"))
}
