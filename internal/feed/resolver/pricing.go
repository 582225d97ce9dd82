package resolver

import (
	"fmt"
	"math"
	"strings"
	"time"

	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// priceSet is every derived price variant a channel might ask for. Stored
// prices are gross (tax inclusive); net strips the product's tax rate.
type priceSet struct {
	Gross   float64
	Net     float64
	Regular float64
	Sale    float64
	HasSale bool
}

func derivePrices(p models.Product, taxRate float64) priceSet {
	set := priceSet{Regular: p.RegularPrice, Gross: p.RegularPrice}
	if p.SalePrice != nil && *p.SalePrice > 0 && saleActive(p) {
		set.Sale = *p.SalePrice
		set.HasSale = true
		set.Gross = *p.SalePrice
	}
	set.Net = netOf(set.Gross, taxRate)
	return set
}

func saleActive(p models.Product) bool {
	now := time.Now()
	if p.SaleStart != nil && now.Before(*p.SaleStart) {
		return false
	}
	if p.SaleEnd != nil && now.After(*p.SaleEnd) {
		return false
	}
	return true
}

func netOf(gross, taxRate float64) float64 {
	if taxRate <= 0 {
		return gross
	}
	return gross / (1 + taxRate/100)
}

// setPriceFields writes the full price family onto the record: plain,
// rounded, localized (decimal comma) and currency-suffixed variants.
func setPriceFields(rec record.Record, set priceSet, currency string) {
	put := func(name string, v float64) {
		plain := format2(v)
		rec.SetString(name, plain)
		rec.SetString(name+"_rounded", plain)
		rec.SetString(name+"_localized", strings.ReplaceAll(plain, ".", ","))
		rec.SetString(name+"_with_currency", plain+" "+currency)
	}
	put("price", set.Gross)
	put("net_price", set.Net)
	put("regular_price", set.Regular)
	if set.HasSale {
		put("sale_price", set.Sale)
	} else {
		rec.SetString("sale_price", "")
		rec.SetString("sale_price_with_currency", "")
	}
	// price_forced always carries the regular price even while a sale runs
	rec.SetString("price_forced", format2(set.Regular))
}

func format2(v float64) string {
	return fmt.Sprintf("%.2f", math.Floor(v*100+0.5)/100)
}
