package model

import "github.com/shopspring/decimal"

// Discount is a percentage-off code that each customer may redeem once.
type Discount struct {
	Code       string
	Percentage decimal.Decimal
	redeemedBy map[string]struct{}
}

// NewDiscount creates a discount with the given prior redemptions.
func NewDiscount(code string, percentage decimal.Decimal, usedBy []string) *Discount {
	d := &Discount{
		Code:       code,
		Percentage: percentage,
		redeemedBy: make(map[string]struct{}, len(usedBy)),
	}
	for _, id := range usedBy {
		d.redeemedBy[id] = struct{}{}
	}
	return d
}

// IsRedeemedBy reports whether the customer has already used this code.
func (d *Discount) IsRedeemedBy(customerID string) bool {
	_, ok := d.redeemedBy[customerID]
	return ok
}

// Redeem records that the customer has used this code.
func (d *Discount) Redeem(customerID string) {
	if d.redeemedBy == nil {
		d.redeemedBy = make(map[string]struct{})
	}
	d.redeemedBy[customerID] = struct{}{}
}

// Redemptions returns the number of customers that have used this code.
func (d *Discount) Redemptions() int {
	return len(d.redeemedBy)
}

// Multiplier returns the factor applied to a cart subtotal, 1 - percentage.
func (d *Discount) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(d.Percentage)
}
