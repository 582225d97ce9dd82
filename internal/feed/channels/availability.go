package channels

import "feedforge/internal/models"

// Availability translates a stock status into the channel's vocabulary.
// Google-taxonomy channels use underscore terms, Fruugo shouts, Yandex wants
// an offer flag, everyone else gets space-separated phrases.
func Availability(status models.StockStatus, taxonomy Taxonomy) string {
	switch taxonomy {
	case TaxonomyGoogleShopping:
		switch status {
		case models.StockStatusOutOfStock:
			return "out_of_stock"
		case models.StockStatusOnBackorder:
			return "backorder"
		case models.StockStatusPreorder:
			return "preorder"
		default:
			return "in_stock"
		}
	case TaxonomyFruugo:
		if status == models.StockStatusOutOfStock {
			return "OUTOFSTOCK"
		}
		return "INSTOCK"
	case TaxonomyYandex:
		if status == models.StockStatusOutOfStock {
			return "false"
		}
		return "true"
	default:
		switch status {
		case models.StockStatusOutOfStock:
			return "out of stock"
		case models.StockStatusOnBackorder:
			return "on backorder"
		case models.StockStatusPreorder:
			return "preorder"
		default:
			return "in stock"
		}
	}
}

// AvailabilityDays maps stock status to the dispatch-days figure the Czech
// marketplaces (Heureka, Zbozi) expect in DELIVERY_DATE.
func AvailabilityDays(status models.StockStatus) string {
	switch status {
	case models.StockStatusInStock:
		return "0"
	case models.StockStatusOnBackorder, models.StockStatusPreorder:
		return "7"
	default:
		return ""
	}
}
