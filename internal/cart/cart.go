package cart

import (
	"errors"
	"sync"
	"time"

	"ecostore/internal/domain"
)

var (
	// ErrStockExceeded is returned when a merged add would exceed the
	// product's stock. The add is rejected in full, never partially applied.
	ErrStockExceeded = errors.New("not enough items in stock")
)

// Status describes the outcome of a cart mutation. The store reports the
// outcome; the caller decides how to present it.
type Status int

const (
	// StatusNoop means the operation matched no cart item.
	StatusNoop Status = iota
	// StatusAdded means a new item was appended to the cart.
	StatusAdded
	// StatusUpdated means an existing item's quantity changed.
	StatusUpdated
	// StatusRemoved means an item was removed from the cart.
	StatusRemoved
)

// Result carries the outcome of a cart mutation along with the affected
// item, when there is one.
type Result struct {
	Status Status
	Item   domain.CartItem
}

// Cart holds the ordered list of items for one session. Insertion order is
// preserved for display. All methods are safe for concurrent use.
type Cart struct {
	mu         sync.Mutex
	items      []domain.CartItem
	lastActive time.Time
}

func newCart() *Cart {
	return &Cart{lastActive: time.Now()}
}

// Add merges quantity into an existing item for the same product or appends
// a new item. If the resulting quantity would exceed the product's stock the
// call is rejected in full and the cart is left unchanged.
func (c *Cart) Add(product domain.Product, quantity int) (Result, error) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()

	for i, item := range c.items {
		if item.Product.ID != product.ID {
			continue
		}
		merged := item.Quantity + quantity
		if merged > product.Stock {
			return Result{}, ErrStockExceeded
		}
		c.items[i].Quantity = merged
		return Result{Status: StatusUpdated, Item: c.items[i]}, nil
	}

	if quantity > product.Stock {
		return Result{}, ErrStockExceeded
	}
	item := domain.CartItem{Product: product, Quantity: quantity}
	c.items = append(c.items, item)
	return Result{Status: StatusAdded, Item: item}, nil
}

// Remove deletes the item for the given product id. Removing an absent
// product is a no-op, not an error.
func (c *Cart) Remove(productID string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()

	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return Result{Status: StatusRemoved, Item: item}
		}
	}
	return Result{Status: StatusNoop}
}

// UpdateQuantity sets the quantity for the given product, silently clamped
// to [1, stock]. Unknown product ids are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()

	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items[i].Quantity = clamp(quantity, 1, item.Product.Stock)
			return Result{Status: StatusUpdated, Item: c.items[i]}
		}
	}
	return Result{Status: StatusNoop}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()
	c.items = nil
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the sum of effective price times quantity across all items.
// An empty cart totals zero.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount returns the summed quantity across all items, for the cart
// badge.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) idleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive.Before(cutoff)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
