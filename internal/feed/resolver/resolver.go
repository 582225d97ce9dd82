// Package resolver assembles the per-product field set feeds are built
// from: pricing, identifiers, availability, categories, images, custom
// attributes, reviews and shipping rows.
package resolver

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/record"
	"feedforge/internal/feed/shipping"
	"feedforge/internal/models"
)

// Source supplies the host store's taxonomy and review data. Lookups are
// read-only; a missing ID is not an error.
type Source interface {
	Category(id string) (models.Category, bool)
	Reviews(productID string) ([]models.Review, error)
}

type Resolver struct {
	source   Source
	shipping *shipping.Resolver
	taxes    []models.TaxRate
}

func New(source Source, shippingResolver *shipping.Resolver, taxes []models.TaxRate) *Resolver {
	return &Resolver{source: source, shipping: shippingResolver, taxes: taxes}
}

// Resolve builds the full record for one product. parent is nil for simple
// products and for orphaned variations.
func (r *Resolver) Resolve(p models.Product, parent *models.Product, feed models.Feed, schema *channels.Schema) (record.Record, error) {
	if p.Type == models.ProductTypeVariation {
		inheritFromParent(&p, parent)
	}

	rec := record.Record{}
	rec.SetString("id", p.ExternalID)
	rec.SetString("internal_id", p.ID)
	rec.SetString("sku", p.SKU)
	rec.SetString("condition", p.Condition)
	rec.SetString("currency", p.Currency)
	rec.SetString("link", r.linkWithUTM(p.Link, feed))

	title := SanitizeHTML(p.Title)
	rec.SetString("title", TruncateTitle(title, schema.TitleLimit))
	if p.Description != nil {
		rec.SetString("description", SanitizeHTML(*p.Description))
	}
	if p.ShortDescription != nil {
		rec.SetString("short_description", SanitizeHTML(*p.ShortDescription))
	}

	r.setIdentifiers(rec, p)
	r.setVariationFields(rec, p, parent, feed)
	r.setStockFields(rec, p, schema)
	r.setImageFields(rec, p)
	r.setCategoryFields(rec, p, feed)
	r.setCustomAttributes(rec, p)
	r.setReviewRows(rec, p)

	taxRate := r.taxRateFor(feed.TargetCountry, p.TaxClass)
	rec.SetString("tax_rate", format2(taxRate))
	prices := derivePrices(p, taxRate)
	setPriceFields(rec, prices, currencyOf(p, feed))
	if prices.HasSale {
		rec.SetString("sale_price_effective_date", saleWindow(p))
	}

	if p.Weight != nil {
		rec.SetString("weight", format2(*p.Weight))
	}
	if p.StockQuantity != nil {
		rec.SetString("quantity", fmt.Sprintf("%d", *p.StockQuantity))
	}

	r.setShippingRows(rec, p, prices.Gross, feed)
	return rec, nil
}

func (r *Resolver) setIdentifiers(rec record.Record, p models.Product) {
	brand, gtin, mpn := "", "", ""
	if p.Brand != nil {
		brand = *p.Brand
	}
	if p.GTIN != nil {
		gtin = *p.GTIN
	}
	if gtin == "" {
		gtin = barcodeFromAttributes(p.Attributes)
	}
	if p.MPN != nil {
		mpn = *p.MPN
	}
	rec.SetString("brand", brand)
	rec.SetString("gtin", gtin)
	rec.SetString("mpn", mpn)
	if brand != "" && (gtin != "" || mpn != "") {
		rec.SetString("identifier_exists", "yes")
	} else {
		rec.SetString("identifier_exists", "no")
	}
}

// barcodeFromAttributes falls back to a custom attribute that looks like a
// GTIN: 12 to 14 digits.
func barcodeFromAttributes(attrs map[string]string) string {
	for key, value := range attrs {
		k := strings.ToLower(key)
		if k != "gtin" && k != "ean" && k != "barcode" && k != "upc" {
			continue
		}
		if n := len(value); n >= 12 && n <= 14 && digitsOnly(value) {
			return value
		}
	}
	return ""
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (r *Resolver) setVariationFields(rec record.Record, p models.Product, parent *models.Product, feed models.Feed) {
	rec.SetString("product_type", string(p.Type))
	if p.Type != models.ProductTypeVariation {
		return
	}
	if parent == nil {
		// orphan: group under itself with the sentinel count
		rec.SetString("item_group_id", p.ExternalID)
		rec.SetString("variation_count", fmt.Sprintf("%d", orphanVariationCount))
		return
	}
	rec.SetString("item_group_id", parent.ExternalID)
	rec.SetString("parent_sku", parent.SKU)
	rec.SetString("mother_title", SanitizeHTML(parent.Title))
	var params []string
	for name := range p.Attributes {
		params = append(params, name)
	}
	rec.Set("variable_params", record.List(params))
}

func (r *Resolver) setStockFields(rec record.Record, p models.Product, schema *channels.Schema) {
	rec.SetString("stock_status", string(p.StockStatus))
	rec.SetString("availability", channels.Availability(p.StockStatus, schema.Taxonomy))
	rec.SetString("availability_days", channels.AvailabilityDays(p.StockStatus))
	if p.StockStatus == models.StockStatusInStock {
		rec.SetString("instock_flag", "Y")
	} else {
		rec.SetString("instock_flag", "N")
	}
}

func (r *Resolver) setImageFields(rec record.Record, p models.Product) {
	rec.SetString("image", p.ImageURL)
	all := []string{}
	if p.ImageURL != "" {
		all = append(all, p.ImageURL)
	}
	for i, img := range p.GalleryImages {
		if i >= 9 {
			break
		}
		rec.SetString(fmt.Sprintf("image_%d", i+2), img)
		all = append(all, img)
	}
	rec.Set("all_images", record.List(all))
}

func (r *Resolver) setCategoryFields(rec record.Record, p models.Product, feed models.Feed) {
	var paths []string
	var leaves []string
	for _, id := range p.CategoryIDs {
		path := r.categoryPath(id)
		if len(path) == 0 {
			continue
		}
		paths = append(paths, strings.Join(path, " > "))
		leaves = append(leaves, path[len(path)-1])
	}
	if len(paths) > 0 {
		rec.SetString("categories", paths[len(paths)-1])
	}
	rec.Set("raw_categories", record.List(leaves))

	for _, cm := range feed.CategoryMappings {
		for _, id := range p.CategoryIDs {
			if cm.CategoryID == id {
				rec.SetString("channel_category", cm.ChannelCategory)
				return
			}
		}
	}
}

// categoryPath walks parents up to the root; cycles are cut at a fixed
// depth.
func (r *Resolver) categoryPath(id string) []string {
	var path []string
	for depth := 0; id != "" && depth < 20; depth++ {
		cat, ok := r.source.Category(id)
		if !ok {
			break
		}
		path = append([]string{cat.Name}, path...)
		if cat.ParentID == nil {
			break
		}
		id = *cat.ParentID
	}
	return path
}

func (r *Resolver) setCustomAttributes(rec record.Record, p models.Product) {
	var details []record.Row
	names := make([]string, 0, len(p.Attributes))
	for name := range p.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := p.Attributes[name]
		key := attributeKey(name)
		if key == "" || value == "" {
			continue
		}
		if !rec.Has(key) {
			rec.SetString(key, SanitizeHTML(value))
		}
		row := record.NewRow()
		row.Set("section", "Attributes")
		row.Set("attribute", name)
		row.Set("value", SanitizeHTML(value))
		details = append(details, row)
	}
	if len(details) > 0 {
		rec.Set("product_detail", record.Rows(details))
	}
	if len(p.Tags) > 0 {
		rec.Set("product_tag", record.List(p.Tags))
	}
	rec.SetString("rating_count", fmt.Sprintf("%d", p.RatingCount))
	if p.RatingAverage > 0 {
		rec.SetString("rating_average", format2(p.RatingAverage))
	}
}

// attributeKey normalizes a custom attribute name to a field key; names that
// normalize to nothing are skipped rather than failing the product.
func attributeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, key)
	return strings.Trim(key, "_")
}

// setReviewRows keeps approved, rated, link-free reviews only.
func (r *Resolver) setReviewRows(rec record.Record, p models.Product) {
	reviews, err := r.source.Reviews(p.ID)
	if err != nil || len(reviews) == 0 {
		return
	}
	var rows []record.Row
	for _, rv := range reviews {
		if !rv.Approved || rv.Rating <= 0 {
			continue
		}
		if strings.Contains(rv.Content, "http://") || strings.Contains(rv.Content, "https://") {
			continue
		}
		row := record.NewRow()
		row.Set("reviewer", SanitizeHTML(rv.Reviewer))
		row.Set("rating", fmt.Sprintf("%d", rv.Rating))
		row.Set("title", SanitizeHTML(rv.Title))
		row.Set("content", SanitizeHTML(rv.Content))
		row.Set("date", rv.CreatedAt.Format("2006-01-02"))
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		rec.Set("reviews", record.Rows(rows))
	}
}

func (r *Resolver) setShippingRows(rec record.Record, p models.Product, price float64, feed models.Feed) {
	if r.shipping == nil {
		return
	}
	class := ""
	if p.ShippingClass != nil {
		class = *p.ShippingClass
	}
	entries := r.shipping.Resolve(price, class, shipping.Options{
		TargetCountry:    feed.TargetCountry,
		TaxClass:         p.TaxClass,
		StripFree:        feed.StripFreeShipping,
		StripLocalPickup: feed.StripLocalPickup,
	})
	if len(entries) == 0 {
		return
	}
	rows := make([]record.Row, 0, len(entries))
	for _, e := range entries {
		row := record.NewRow()
		row.Set("country", e.Country)
		if e.Region != "" {
			row.Set("region", e.Region)
		}
		if e.Postcode != "" {
			row.Set("postal_code", e.Postcode)
		}
		row.Set("service", e.Service)
		row.Set("price", e.Price)
		rows = append(rows, row)
	}
	rec.Set("shipping", record.Rows(rows))
}

func (r *Resolver) taxRateFor(country, taxClass string) float64 {
	if taxClass == "" {
		taxClass = "standard"
	}
	for _, t := range r.taxes {
		if strings.EqualFold(t.Country, country) && strings.EqualFold(t.TaxClass, taxClass) {
			return t.Rate
		}
	}
	return 0
}

func (r *Resolver) linkWithUTM(link string, feed models.Feed) string {
	if link == "" || (feed.UTMSource == "" && feed.UTMMedium == "" && feed.UTMCampaign == "") {
		return link
	}
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	q := u.Query()
	if feed.UTMSource != "" {
		q.Set("utm_source", feed.UTMSource)
	}
	if feed.UTMMedium != "" {
		q.Set("utm_medium", feed.UTMMedium)
	}
	if feed.UTMCampaign != "" {
		q.Set("utm_campaign", feed.UTMCampaign)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func currencyOf(p models.Product, feed models.Feed) string {
	if feed.Currency != "" {
		return feed.Currency
	}
	return p.Currency
}

func saleWindow(p models.Product) string {
	const layout = "2006-01-02T15:04-0700"
	start, end := time.Now(), time.Now().AddDate(0, 1, 0)
	if p.SaleStart != nil {
		start = *p.SaleStart
	}
	if p.SaleEnd != nil {
		end = *p.SaleEnd
	}
	return start.Format(layout) + "/" + end.Format(layout)
}
