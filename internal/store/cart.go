// internal/store/cart.go
package store

import (
	"sync"

	"github.com/nexuscatalog/storefront-go/internal/models"
)

// CartItem is a product snapshot plus a quantity of at least 1. The
// price captured at add-time is what the totals use; it is never
// re-fetched.
type CartItem struct {
	Product  models.Product
	Quantity int
}

// Cart is a pure local reducer over cart lines. No method touches the
// network.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add merges qty into an existing line for the product or appends a new
// line. qty below 1 is treated as 1.
func (c *Cart) Add(product models.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += qty
			return
		}
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: qty})
}

// SetQuantity replaces the quantity of an existing line. qty <= 0
// removes the line. Calling SetQuantity for a product that has no line
// is a no-op: a removed line never reappears through this method, only
// through Add.
func (c *Cart) SetQuantity(productID, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			if qty <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = qty
			}
			return
		}
	}
}

// Remove drops the line for productID, if present.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// TotalPrice sums price-at-add-time times quantity per line.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, item := range c.items {
		total += float64(item.Product.Price) * float64(item.Quantity)
	}
	return total
}
