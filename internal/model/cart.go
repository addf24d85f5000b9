package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one product-to-quantity entry in a cart.
type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShoppingCart maps products to positive quantities and holds at most one
// active discount. Lines keep the order in which products were first added.
type ShoppingCart struct {
	lines    map[string]*CartLine
	order    []string
	discount *Discount
}

// NewShoppingCart creates an empty cart.
func NewShoppingCart() *ShoppingCart {
	return &ShoppingCart{
		lines: make(map[string]*CartLine),
	}
}

// AddItem adds quantity units of product, accumulating onto an existing line.
func (c *ShoppingCart) AddItem(product Product, quantity int) error {
	if quantity <= 0 {
		return InvalidInputErrorf("Quantity must be a positive integer, got %d", quantity)
	}

	if line, ok := c.lines[product.ID]; ok {
		line.Quantity += quantity
		return nil
	}

	c.lines[product.ID] = &CartLine{Product: product, Quantity: quantity}
	c.order = append(c.order, product.ID)
	return nil
}

// RemoveItem takes quantity units of product out of the cart. A line that
// drops to zero or below is deleted. It returns false when the product was
// not in the cart, which is not an error.
func (c *ShoppingCart) RemoveItem(product Product, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, InvalidInputErrorf("Quantity must be a positive integer, got %d", quantity)
	}

	line, ok := c.lines[product.ID]
	if !ok {
		return false, nil
	}

	line.Quantity -= quantity
	if line.Quantity <= 0 {
		delete(c.lines, product.ID)
		for i, id := range c.order {
			if id == product.ID {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	return true, nil
}

// Quantity returns the quantity held for a product id, 0 if absent.
func (c *ShoppingCart) Quantity(productID string) int {
	if line, ok := c.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *ShoppingCart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

// ApplyDiscount sets the active discount, replacing any previous one.
func (c *ShoppingCart) ApplyDiscount(discount *Discount) {
	c.discount = discount
}

// Discount returns the active discount or nil.
func (c *ShoppingCart) Discount() *Discount {
	return c.discount
}

// Subtotal returns the undiscounted sum over all lines.
func (c *ShoppingCart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// TotalPrice returns the subtotal scaled by the active discount, if any.
func (c *ShoppingCart) TotalPrice() decimal.Decimal {
	total := c.Subtotal()
	if c.discount != nil {
		total = total.Mul(c.discount.Multiplier())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *ShoppingCart) IsEmpty() bool {
	return len(c.lines) == 0
}

// String renders the cart contents for display.
func (c *ShoppingCart) String() string {
	if c.IsEmpty() {
		return "Your cart is empty.\n"
	}

	var b strings.Builder
	b.WriteString("Cart contents:\n")
	for _, line := range c.Lines() {
		fmt.Fprintf(&b, "  %s x%d @ $%s = $%s\n",
			line.Product.Name,
			line.Quantity,
			line.Product.Price.StringFixed(2),
			line.Subtotal().StringFixed(2),
		)
	}
	if c.discount != nil {
		fmt.Fprintf(&b, "Discount: %s (%s%% off)\n",
			c.discount.Code,
			c.discount.Percentage.Mul(decimal.NewFromInt(100)).String(),
		)
	}
	fmt.Fprintf(&b, "Total: $%s\n", c.TotalPrice().StringFixed(2))
	return b.String()
}
