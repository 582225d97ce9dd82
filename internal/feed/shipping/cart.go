package shipping

import "feedforge/internal/models"

// RateFunc computes a table-rate cost from the cart contents. Hosts with a
// rate-table engine plug theirs in here.
type RateFunc func(items []CartItem, method models.ShippingMethod) (float64, bool)

type CartItem struct {
	Price         float64
	ShippingClass string
}

// Cart is the simulated-cart quoter used when a method has no static cost.
// Quote adds the product to the cart and reads the computed rate; Reset
// empties it again. The resolver pairs every Quote with a Reset, so the cart
// is always empty between resolutions.
type Cart struct {
	items []CartItem
	rate  RateFunc
}

func NewCart(rate RateFunc) *Cart {
	return &Cart{rate: rate}
}

func (c *Cart) Quote(price float64, shippingClass string, method models.ShippingMethod) (float64, bool) {
	c.items = append(c.items, CartItem{Price: price, ShippingClass: shippingClass})
	if c.rate == nil {
		return 0, false
	}
	return c.rate(c.items, method)
}

func (c *Cart) Reset() {
	c.items = c.items[:0]
}

// Len reports the current item count; generation invariants expect zero
// between products.
func (c *Cart) Len() int {
	return len(c.items)
}
