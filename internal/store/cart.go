package store

import (
	"fmt"
	"sync"

	"productkart/internal/models"
	"productkart/internal/pricing"
	"productkart/pkg/localstore"
)

// cartKey is the durable key holding the serialized cart.
const cartKey = "cart"

// CartLine is one product's quantity entry in the shopping cart.
// CountInStock is a snapshot taken when the line was added and bounds
// the quantity.
type CartLine struct {
	ProductID    string  `json:"product"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Qty          int     `json:"qty"`
}

// cartState is what persists to durable storage.
type cartState struct {
	Items           []CartLine             `json:"cartItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Cart is the client-owned shopping cart: at most one line per product,
// quantities bounded by the stock snapshot, persisted so it survives a
// reload.
type Cart struct {
	mu      sync.Mutex
	storage *localstore.Store
	state   cartState
}

// NewCart creates the cart, hydrating from storage. Absent or corrupt
// storage yields an empty cart.
func NewCart(storage *localstore.Store) *Cart {
	c := &Cart{storage: storage}
	var stored cartState
	if err := storage.Load(cartKey, &stored); err == nil {
		c.state = stored
	}
	if c.state.Items == nil {
		c.state.Items = []CartLine{}
	}
	return c
}

// AddItem merges a line into the cart. A line for the same product
// replaces the existing quantity (it does not add to it); the quantity
// is clamped to [1, stock snapshot]. An out-of-stock snapshot rejects
// the add, since no quantity in that range exists.
func (c *Cart) AddItem(line CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line.CountInStock < 1 {
		return fmt.Errorf("product %s is out of stock", line.ProductID)
	}
	if line.Qty < 1 {
		line.Qty = 1
	}
	if line.Qty > line.CountInStock {
		line.Qty = line.CountInStock
	}

	replaced := false
	for i, existing := range c.state.Items {
		if existing.ProductID == line.ProductID {
			c.state.Items[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		c.state.Items = append(c.state.Items, line)
	}
	return c.persist()
}

// RemoveItem drops the line for productID, if present.
func (c *Cart) RemoveItem(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.state.Items[:0]
	for _, line := range c.state.Items {
		if line.ProductID != productID {
			items = append(items, line)
		}
	}
	c.state.Items = items
	return c.persist()
}

// ClearItems empties the cart after a successful order. The shipping
// address and payment method are kept for the next checkout.
func (c *Cart) ClearItems() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = []CartLine{}
	return c.persist()
}

// SetShippingAddress stores the checkout destination.
func (c *Cart) SetShippingAddress(addr models.ShippingAddress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShippingAddress = addr
	return c.persist()
}

// SetPaymentMethod stores the chosen payment method.
func (c *Cart) SetPaymentMethod(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PaymentMethod = method
	return c.persist()
}

// Items returns a copy of the cart lines, never nil.
func (c *Cart) Items() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]CartLine, len(c.state.Items))
	copy(items, c.state.Items)
	return items
}

// ShippingAddress returns the stored checkout destination.
func (c *Cart) ShippingAddress() models.ShippingAddress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ShippingAddress
}

// PaymentMethod returns the stored payment method.
func (c *Cart) PaymentMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.PaymentMethod
}

// BadgeCount is the sum of quantities across all lines; zero means the
// badge is hidden.
func (c *Cart) BadgeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, line := range c.state.Items {
		total += line.Qty
	}
	return total
}

// Empty reports whether the cart has no lines. Checkout is disabled for
// an empty cart.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Items) == 0
}

// Quote recomputes the checkout price breakdown from the current lines.
func (c *Cart) Quote() pricing.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]pricing.Line, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		lines = append(lines, pricing.Line{Price: item.Price, Qty: item.Qty})
	}
	return pricing.QuoteLines(lines)
}

// persist writes the cart through to durable storage. Callers hold the
// lock.
func (c *Cart) persist() error {
	return c.storage.Save(cartKey, &c.state)
}
