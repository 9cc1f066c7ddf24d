// Package cart holds the in-memory shopping cart and its sidebar state.
// A cart lives for the duration of a browser session and is never persisted;
// totals and counts are derived on every read instead of being accumulated.
package cart

import "sync"

// LineItem is one entry in the cart. Prices are minor units (cents);
// conversion to decimal dollars happens only at the API boundary.
type LineItem struct {
	ID       int64
	Name     string
	Price    int64
	Quantity int
}

// Cart is an ordered sequence of line items. Insertion order is display order.
// Lines merge by Name, not ID: adding a product whose name is already present
// bumps that line's quantity rather than appending a duplicate.
//
// A cart is shared by every in-flight request of its session, so all access
// goes through the mutex. Rapid htmx clicks do hit the same cart concurrently.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line by name (quantity +1) or appends a new
// line with quantity 1. It always succeeds.
func (c *Cart) AddItem(id int64, name string, price int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{ID: id, Name: name, Price: price, Quantity: 1})
}

// SetQuantity assigns the quantity at index, clamping values below 1 up to 1.
// An out-of-range index panics; handlers bounds-check user input before calling.
func (c *Cart) SetQuantity(index, value int) {
	if value < 1 {
		value = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[index].Quantity = value
}

// RemoveItem deletes the line at index, preserving the order of the rest.
func (c *Cart) RemoveItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Total returns the sum of price*quantity over all lines, in minor units.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, it := range c.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Count returns the sum of quantities over all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c.Len() == 0
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}
