package resolver

import (
	"feedforge/internal/models"
)

// orphanVariationCount is the sentinel used when a variation's parent is
// missing from the store.
const orphanVariationCount = 9999

// SelectVariations picks which of a parent's variations a feed emits.
// "default_only" keeps the variation matching the parent's default attribute
// set, "lowest_price" the cheapest; both fall back to all variations when no
// candidate qualifies.
func SelectVariations(parent models.Product, variations []models.Product, mode models.VariationMode) []models.Product {
	if len(variations) == 0 {
		return nil
	}
	switch mode {
	case models.VariationModeDefaultOnly:
		if len(parent.DefaultAttrs) == 0 {
			return variations
		}
		for _, v := range variations {
			if matchesDefaults(parent.DefaultAttrs, v.Attributes) {
				return []models.Product{v}
			}
		}
		return variations
	case models.VariationModeLowestPrice:
		lowest := variations[0]
		for _, v := range variations[1:] {
			if effectivePrice(v) < effectivePrice(lowest) {
				lowest = v
			}
		}
		return []models.Product{lowest}
	default:
		return variations
	}
}

func matchesDefaults(defaults map[string]string, attrs map[string]string) bool {
	for name, want := range defaults {
		if attrs[name] != want {
			return false
		}
	}
	return true
}

func effectivePrice(p models.Product) float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && saleActive(p) {
		return *p.SalePrice
	}
	return p.RegularPrice
}

// inheritFromParent copies the parent's descriptive fields onto a variation
// wherever the variation leaves them blank.
func inheritFromParent(v *models.Product, parent *models.Product) {
	if parent == nil {
		return
	}
	if v.Description == nil || *v.Description == "" {
		v.Description = parent.Description
	}
	if v.ShortDescription == nil || *v.ShortDescription == "" {
		v.ShortDescription = parent.ShortDescription
	}
	if len(v.CategoryIDs) == 0 {
		v.CategoryIDs = parent.CategoryIDs
	}
	if len(v.Tags) == 0 {
		v.Tags = parent.Tags
	}
	if v.Brand == nil || *v.Brand == "" {
		v.Brand = parent.Brand
	}
	if v.ImageURL == "" {
		v.ImageURL = parent.ImageURL
	}
	if len(v.GalleryImages) == 0 {
		v.GalleryImages = parent.GalleryImages
	}
	merged := map[string]string{}
	for k, val := range parent.Attributes {
		merged[k] = val
	}
	for k, val := range v.Attributes {
		if val != "" {
			merged[k] = val
		}
	}
	v.Attributes = merged
}
