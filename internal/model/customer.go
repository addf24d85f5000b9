package model

import "strings"

// Tier selects which products a customer can see and how they are labelled.
type Tier int

const (
	TierBargain Tier = iota
	TierLoyalty
)

// ParseTier maps the menu letter to a tier: L for loyalty, B for bargain.
func ParseTier(letter string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "L":
		return TierLoyalty, nil
	case "B":
		return TierBargain, nil
	default:
		return 0, InvalidInputErrorf("Invalid customer type %q, expected L or B", letter)
	}
}

func (t Tier) String() string {
	if t == TierLoyalty {
		return "loyalty"
	}
	return "bargain"
}

// Customer owns a single shopping cart.
type Customer struct {
	ID   string
	Name string
	Tier Tier
	Cart *ShoppingCart
}

// NewCustomer creates a customer with an empty cart.
func NewCustomer(id, name string, tier Tier) *Customer {
	return &Customer{
		ID:   id,
		Name: name,
		Tier: tier,
		Cart: NewShoppingCart(),
	}
}

// CanSeeExclusive reports whether exclusive products are visible.
func (c *Customer) CanSeeExclusive() bool {
	return c.Tier == TierLoyalty
}

// Label is the display name including the tier.
func (c *Customer) Label() string {
	if c.Tier == TierLoyalty {
		return "Loyal Customer: " + c.Name
	}
	return "Bargain Hunter: " + c.Name
}
