package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mini-kart-sim/internal/model"
	"mini-kart-sim/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const menu = `
=== Mini Kart ===
1. Create customer
2. List products
3. List products by category
4. Add or remove cart item
5. Apply discount code
6. View cart
7. Checkout
8. Exit
`

// maxLineLength bounds a single input line. Longer lines are discarded and
// reported as invalid input.
const maxLineLength = 64 * 1024

var (
	// errExit ends the session.
	errExit = errors.New("exit")
	// errRead marks a failure of the input stream itself.
	errRead = errors.New("failed to read input")
)

// Shell is the interactive read-dispatch-print loop over a single customer
// session.
type Shell struct {
	store    *store.Store
	in       *bufio.Reader
	out      io.Writer
	logger   zerolog.Logger
	customer *model.Customer
	newID    func() string
}

// New creates a shell reading lines from in and writing to out.
func New(st *store.Store, in io.Reader, out io.Writer, logger zerolog.Logger) *Shell {
	return &Shell{
		store:  st,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger.With().Str("component", "shell").Logger(),
		newID:  uuid.NewString,
	}
}

// Customer returns the current customer, or nil before one is created.
func (s *Shell) Customer() *model.Customer {
	return s.customer
}

// Run prompts until the user exits, input ends, or ctx is cancelled. Domain
// errors are reported and the menu is shown again.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.print(menu)
		choice, err := s.prompt("Choose an option: ")
		if err == nil {
			err = s.dispatch(choice)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
			return s.finish(err)
		}

		if errors.Is(err, errRead) {
			return err
		}

		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			s.logger.Debug().Str("code", domainErr.Code).Str("choice", choice).Msg(domainErr.Message)
		} else {
			s.logger.Error().Err(err).Str("choice", choice).Msg("menu action failed")
		}
		s.printf("Error: %s\n", err)
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
		s.print("Goodbye!\n")
		return nil
	}
	return err
}

func (s *Shell) dispatch(choice string) error {
	switch choice {
	case "1":
		return s.createCustomer()
	case "2":
		return s.withCustomer(func() error { return s.listProducts(nil) })
	case "3":
		return s.withCustomer(s.listByCategory)
	case "4":
		return s.withCustomer(s.updateCart)
	case "5":
		return s.withCart(s.applyDiscount)
	case "6":
		return s.withCustomer(s.viewCart)
	case "7":
		return s.withCart(s.checkout)
	case "8":
		return errExit
	default:
		return model.InvalidInputErrorf("Invalid choice %q, please enter a number from 1 to 8", choice)
	}
}

func (s *Shell) withCustomer(action func() error) error {
	if s.customer == nil {
		s.print("Please create a customer first.\n")
		return nil
	}
	return action()
}

func (s *Shell) withCart(action func() error) error {
	return s.withCustomer(func() error {
		if s.customer.Cart.IsEmpty() {
			s.print("Your cart is empty.\n")
			return nil
		}
		return action()
	})
}

func (s *Shell) createCustomer() error {
	letter, err := s.prompt("Customer type (L = loyalty, B = bargain): ")
	if err != nil {
		return err
	}
	tier, err := model.ParseTier(letter)
	if err != nil {
		return err
	}

	id, err := s.prompt("Customer ID (leave blank to generate): ")
	if err != nil {
		return err
	}
	if id == "" {
		id = s.newID()
	}

	name, err := s.prompt("Customer name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return model.InvalidInputErrorf("Customer name cannot be empty")
	}

	s.customer = model.NewCustomer(id, name, tier)
	s.logger.Info().
		Str("customer_id", id).
		Str("tier", tier.String()).
		Msg("customer created")

	s.printf("Welcome, %s (id %s)\n", s.customer.Label(), id)
	return nil
}

func (s *Shell) listProducts(category *string) error {
	found := false
	for p := range s.store.ListProducts(s.customer, category) {
		if !found {
			s.print("Products:\n")
			found = true
		}
		s.printf("  %s\n", p)
	}
	if !found {
		s.print("No products available.\n")
	}
	return nil
}

func (s *Shell) listByCategory() error {
	if categories := s.store.Categories(); len(categories) > 0 {
		s.printf("Categories: %s\n", strings.Join(categories, ", "))
	}

	category, err := s.prompt("Category: ")
	if err != nil {
		return err
	}
	return s.listProducts(&category)
}

func (s *Shell) updateCart() error {
	action, err := s.prompt("Add or remove? (a/r): ")
	if err != nil {
		return err
	}
	action = strings.ToLower(action)
	if action != "a" && action != "r" {
		return model.InvalidInputErrorf("Invalid action %q, expected a or r", action)
	}

	id, err := s.prompt("Product ID: ")
	if err != nil {
		return err
	}
	product, err := s.store.GetProduct(id)
	if err != nil {
		return err
	}
	if product.Exclusive && !s.customer.CanSeeExclusive() {
		return model.NotFoundErrorf("Product %q not found", id)
	}

	raw, err := s.prompt("Quantity: ")
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return model.InvalidInputErrorf("Quantity must be a whole number, got %q", raw)
	}

	if action == "a" {
		if err := s.customer.Cart.AddItem(product, quantity); err != nil {
			return err
		}
		s.printf("Added %d x %s to your cart.\n", quantity, product.Name)
		return nil
	}

	removed, err := s.customer.Cart.RemoveItem(product, quantity)
	if err != nil {
		return err
	}
	if !removed {
		s.printf("%s is not in your cart.\n", product.Name)
		return nil
	}
	s.printf("Removed %d x %s from your cart.\n", quantity, product.Name)
	return nil
}

func (s *Shell) applyDiscount() error {
	code, err := s.prompt("Discount code: ")
	if err != nil {
		return err
	}

	discount, err := s.store.ApplyDiscount(s.customer, code)
	if err != nil {
		return err
	}

	s.printf("Discount %s applied. New total: $%s\n",
		discount.Code, s.customer.Cart.TotalPrice().StringFixed(2))
	return nil
}

func (s *Shell) viewCart() error {
	s.printf("%s\n", s.customer.Label())
	s.print(s.customer.Cart.String())
	return nil
}

func (s *Shell) checkout() error {
	if err := s.store.Checkout(s.out, s.customer.Cart); err != nil {
		return fmt.Errorf("failed to write checkout summary: %w", err)
	}

	answer, err := s.prompt("Confirm purchase? (y/n): ")
	if err != nil {
		return err
	}

	if strings.ToLower(answer) != "y" {
		s.print("Checkout cancelled. Your cart has been kept.\n")
		return nil
	}

	receipt := s.newID()
	s.logger.Info().
		Str("customer_id", s.customer.ID).
		Str("receipt", receipt).
		Str("total", s.customer.Cart.TotalPrice().StringFixed(2)).
		Msg("purchase confirmed")

	s.printf("Thank you for your purchase, %s! Receipt %s\n", s.customer.Name, receipt)
	s.customer.Cart = model.NewShoppingCart()
	return nil
}

// prompt writes label and returns the next trimmed input line. It returns
// io.EOF when input is exhausted. A line longer than maxLineLength is read
// to its end and rejected as invalid input.
func (s *Shell) prompt(label string) (string, error) {
	s.print(label)

	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := s.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("%w: %w", errRead, err)
		}
		if !tooLong && len(line)+len(chunk) > maxLineLength {
			tooLong = true
			line = nil
		}
		if !tooLong {
			line = append(line, chunk...)
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", model.InvalidInputErrorf("Input line is too long, the limit is %d characters", maxLineLength)
	}
	return strings.TrimSpace(string(line)), nil
}

func (s *Shell) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
