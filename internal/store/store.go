package store

import (
	"context"
	"fmt"
	"io"
	"iter"

	"mini-kart-sim/internal/catalog"
	"mini-kart-sim/internal/model"

	"github.com/rs/zerolog"
)

// Store holds the product and discount catalogs for the lifetime of the
// process. Products are read-only; discounts record redemptions.
type Store struct {
	products  []model.Product
	byID      map[string]int
	discounts map[string]*model.Discount
	logger    zerolog.Logger
}

// New loads both catalogs from provider and builds a store.
func New(ctx context.Context, provider catalog.Provider, logger zerolog.Logger) (*Store, error) {
	products, err := provider.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	discounts, err := provider.Discounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	s := NewFromCatalogs(products, discounts, logger)

	s.logger.Info().
		Int("products", len(s.products)).
		Int("discounts", len(s.discounts)).
		Msg("store initialised")

	return s, nil
}

// NewFromCatalogs builds a store from already loaded catalogs. Later
// duplicates of a product id or discount code replace earlier ones.
func NewFromCatalogs(products []model.Product, discounts []*model.Discount, logger zerolog.Logger) *Store {
	s := &Store{
		products:  make([]model.Product, 0, len(products)),
		byID:      make(map[string]int, len(products)),
		discounts: make(map[string]*model.Discount, len(discounts)),
		logger:    logger.With().Str("component", "store").Logger(),
	}

	for _, p := range products {
		if i, ok := s.byID[p.ID]; ok {
			s.products[i] = p
			continue
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}

	for _, d := range discounts {
		s.discounts[d.Code] = d
	}

	return s
}

// GetProduct returns the product with the given id.
func (s *Store) GetProduct(id string) (model.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return model.Product{}, model.NotFoundErrorf("Product %q not found", id)
	}
	return s.products[i], nil
}

// GetDiscount returns the discount with the given code.
func (s *Store) GetDiscount(code string) (*model.Discount, error) {
	d, ok := s.discounts[code]
	if !ok {
		s.logger.Debug().Str("discount_code", code).Msg("discount not found")
		return nil, model.NotFoundErrorf("Discount code %q not found", code)
	}
	return d, nil
}

// ListProducts yields, in catalog order, the products visible to customer.
// A non-nil category restricts the result to that exact category. Exclusive
// products are only visible to loyalty-tier customers.
func (s *Store) ListProducts(customer *model.Customer, category *string) iter.Seq[model.Product] {
	return func(yield func(model.Product) bool) {
		for _, p := range s.products {
			if category != nil && !p.InCategory(*category) {
				continue
			}
			if p.Exclusive && !customer.CanSeeExclusive() {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Categories returns the distinct product categories in catalog order.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range s.products {
		if p.Category == nil {
			continue
		}
		if _, ok := seen[*p.Category]; ok {
			continue
		}
		seen[*p.Category] = struct{}{}
		categories = append(categories, *p.Category)
	}
	return categories
}

// ApplyDiscount redeems code against the customer's cart. It fails if the
// code is unknown, already active on the cart, or already redeemed by the
// customer. On success the redemption is recorded on the catalog entry and
// stays visible for the rest of the process.
func (s *Store) ApplyDiscount(customer *model.Customer, code string) (*model.Discount, error) {
	discount, err := s.GetDiscount(code)
	if err != nil {
		return nil, err
	}

	if customer.Cart.Discount() == discount {
		return nil, model.NewDomainError(model.ErrCodeAlreadyApplied,
			fmt.Sprintf("Discount %q is already applied to this cart", code))
	}

	if discount.IsRedeemedBy(customer.ID) {
		s.logger.Warn().
			Str("discount_code", code).
			Str("customer_id", customer.ID).
			Msg("discount already redeemed by customer")
		return nil, model.NewDomainError(model.ErrCodeAlreadyRedeemed,
			fmt.Sprintf("Discount %q has already been redeemed by customer %s", code, customer.ID))
	}

	customer.Cart.ApplyDiscount(discount)
	discount.Redeem(customer.ID)

	s.logger.Info().
		Str("discount_code", code).
		Str("customer_id", customer.ID).
		Msg("discount applied")

	return discount, nil
}

// Checkout writes the checkout summary for cart to w. It does not change any
// state.
func (s *Store) Checkout(w io.Writer, cart *model.ShoppingCart) error {
	if _, err := fmt.Fprintln(w, "Checkout summary"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, cart.String()); err != nil {
		return err
	}
	if d := cart.Discount(); d != nil {
		saved := cart.Subtotal().Sub(cart.TotalPrice())
		if _, err := fmt.Fprintf(w, "Subtotal: $%s, you save $%s\n",
			cart.Subtotal().StringFixed(2), saved.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}
