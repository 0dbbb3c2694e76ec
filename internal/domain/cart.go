package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentOption is assigned to every new cart.
const DefaultPaymentOption = "PAYMENT_OPTION_DEFAULT"

// ErrInvalidQuantity is returned by NewCartItem for quantities below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart is the single cart owned by the user identified by Email.
type Cart struct {
	ID            string     `json:"_id"`
	Email         string     `json:"email"`
	Items         []CartItem `json:"cartItems"`
	PaymentOption string     `json:"paymentOption"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CartItem pairs a product snapshot with the requested quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// NewCartItem snapshots p. The quantity must be positive.
func NewCartItem(p Product, quantity int) (CartItem, error) {
	if quantity < 1 {
		return CartItem{}, ErrInvalidQuantity
	}
	return CartItem{Product: p, Quantity: quantity}, nil
}

// IndexOf returns the position of the item for productID, or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// RemoveAt drops the item at idx keeping the order of the rest.
func (c *Cart) RemoveAt(idx int) {
	items := make([]CartItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:idx]...)
	items = append(items, c.Items[idx+1:]...)
	c.Items = items
}

// Total is the sum of quantity × snapshot cost over all items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Product.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = append([]CartItem(nil), c.Items...)
	return &out
}
