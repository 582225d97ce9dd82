// Package shipping turns the store's zone configuration into the per-country
// price entries feeds carry, including class cost tables, formula costs and
// shipping tax.
package shipping

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"feedforge/internal/models"
)

// ZonePrice is one resolved shipping line. Built fresh per product, never
// persisted.
type ZonePrice struct {
	Country  string
	Region   string
	Postcode string
	Service  string
	Price    string
}

// Options carry the feed-level toggles that shape resolution.
type Options struct {
	TargetCountry    string // empty resolves every zone country
	TaxClass         string
	StripFree        bool
	StripLocalPickup bool
}

// Quoter is the fallback for methods without a static cost (rate tables).
// Reset must revert any state Quote built up; the resolver guarantees it runs
// after every Quote, including on early exits.
type Quoter interface {
	Quote(price float64, shippingClass string, method models.ShippingMethod) (float64, bool)
	Reset()
}

// Resolver computes zone prices from read-only zone and tax configuration.
type Resolver struct {
	zones  []models.ShippingZone
	taxes  []models.TaxRate
	quoter Quoter
}

func NewResolver(zones []models.ShippingZone, taxes []models.TaxRate, quoter Quoter) *Resolver {
	return &Resolver{zones: zones, taxes: taxes, quoter: quoter}
}

// Resolve returns the ordered zone-price list for a product price and
// shipping class. Calling it twice with the same inputs yields the same list.
func (r *Resolver) Resolve(price float64, shippingClass string, opts Options) []ZonePrice {
	zones := make([]models.ShippingZone, len(r.zones))
	copy(zones, r.zones)
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].ZoneOrder < zones[j].ZoneOrder
	})

	var out []ZonePrice
	for _, zone := range zones {
		for _, loc := range zone.Locations {
			if loc.Country == "" {
				continue
			}
			if opts.TargetCountry != "" && !strings.EqualFold(loc.Country, opts.TargetCountry) {
				continue
			}
			for _, method := range zone.Methods {
				if !method.Enabled || method.Title == "" {
					continue
				}
				cost, ok := r.methodCost(price, shippingClass, method, opts)
				if !ok {
					continue
				}
				if method.Taxable && cost > 0 {
					if rate, ok := r.shippingTaxRate(loc.Country, opts.TaxClass); ok {
						cost = cost * (1 + rate/100)
					}
				}
				entry := ZonePrice{
					Country: loc.Country,
					Region:  loc.State,
					Service: method.Title,
					Price:   formatPrice(cost),
				}
				// one entry per configured postcode
				if codes := splitPostcodes(loc.Postcode); len(codes) > 0 {
					for _, code := range codes {
						withCode := entry
						withCode.Postcode = code
						out = append(out, withCode)
					}
				} else {
					out = append(out, entry)
				}
			}
		}
	}
	return out
}

// methodCost resolves a method's cost by precedence: per-class cost entry,
// flat method cost, quoter fallback. The second return is false when the
// method contributes no entry at all.
func (r *Resolver) methodCost(price float64, shippingClass string, method models.ShippingMethod, opts Options) (float64, bool) {
	switch method.Type {
	case models.ShippingTypeFreeShipping:
		if opts.StripFree {
			return 0, false
		}
		if price >= method.FreeMinimum {
			return 0, true
		}
		return 0, false
	case models.ShippingTypeLocalPickup:
		if opts.StripLocalPickup {
			return 0, false
		}
		if cost, ok := evalCost(method.Cost, price); ok {
			return cost, true
		}
		return 0, true
	}

	if shippingClass != "" {
		if raw, ok := method.ClassCosts[shippingClass]; ok {
			if cost, ok := evalCost(raw, price); ok {
				return cost, true
			}
		}
	}
	if cost, ok := evalCost(method.Cost, price); ok {
		return cost, true
	}
	if r.quoter != nil {
		return r.quote(price, shippingClass, method)
	}
	return 0, false
}

// quote runs the fallback with a guaranteed Reset so simulated state never
// leaks into the next resolution.
func (r *Resolver) quote(price float64, shippingClass string, method models.ShippingMethod) (cost float64, ok bool) {
	defer r.quoter.Reset()
	return r.quoter.Quote(price, shippingClass, method)
}

func (r *Resolver) shippingTaxRate(country, taxClass string) (float64, bool) {
	if taxClass == "" {
		taxClass = "standard"
	}
	for _, t := range r.taxes {
		if !t.Shipping {
			continue
		}
		if strings.EqualFold(t.Country, country) && strings.EqualFold(t.TaxClass, taxClass) {
			return t.Rate, true
		}
	}
	return 0, false
}

// evalCost parses a cost cell: a plain number, or a "N + P%" formula where
// the percentage applies to the product price.
func evalCost(raw string, price float64) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
		return v, true
	}
	total := 0.0
	matched := false
	for _, part := range strings.Split(raw, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasSuffix(part, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(part, "%")), 64)
			if err != nil {
				return 0, false
			}
			total += price * pct / 100
			matched = true
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(part, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		total += v
		matched = true
	}
	return total, matched
}

func splitPostcodes(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n'
	})
	var codes []string
	for _, f := range fields {
		if f != "" {
			codes = append(codes, f)
		}
	}
	return codes
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", roundHalfUp(v))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
