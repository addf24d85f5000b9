package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"mini-kart-sim/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// number is a decimal that only accepts a JSON number literal.
type number struct {
	decimal.Decimal
}

func (n *number) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] == '"' {
		return fmt.Errorf("expected a JSON number, got %s", data)
	}
	return n.Decimal.UnmarshalJSON(data)
}

// productRecord is one value of the product document, keyed by product id.
type productRecord struct {
	Name      *string `json:"name"`
	Price     *number `json:"price"`
	Exclusive bool    `json:"exclusive"`
	Category  *string `json:"category"`
}

// discountRecord is one element of the discount document.
type discountRecord struct {
	Code       *string  `json:"code"`
	Percentage *number  `json:"discount_percentage"`
	UsedBy     []string `json:"used_by"`
}

// Loader implements Provider by decoding JSON documents read from a Source.
type Loader struct {
	source        Source
	productsName  string
	discountsName string
	logger        zerolog.Logger
}

// NewLoader creates a loader for the named product and discount documents.
func NewLoader(source Source, productsName, discountsName string, logger zerolog.Logger) *Loader {
	return &Loader{
		source:        source,
		productsName:  productsName,
		discountsName: discountsName,
		logger:        logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Products loads the product catalog. A missing document is logged as a
// warning and yields an empty catalog.
func (l *Loader) Products(ctx context.Context) ([]model.Product, error) {
	data, found, err := l.read(ctx, l.productsName, "product")
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.Product{}, nil
	}

	products, err := DecodeProducts(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.productsName).Msg("invalid product catalog")
		return nil, err
	}

	l.logger.Info().
		Str("file", l.productsName).
		Int("products_loaded", len(products)).
		Msg("product catalog loaded")

	return products, nil
}

// Discounts loads the discount catalog. A missing document is logged as a
// warning and yields an empty catalog.
func (l *Loader) Discounts(ctx context.Context) ([]*model.Discount, error) {
	data, found, err := l.read(ctx, l.discountsName, "discount")
	if err != nil {
		return nil, err
	}
	if !found {
		return []*model.Discount{}, nil
	}

	discounts, err := DecodeDiscounts(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.discountsName).Msg("invalid discount catalog")
		return nil, err
	}

	l.logger.Info().
		Str("file", l.discountsName).
		Int("discounts_loaded", len(discounts)).
		Msg("discount catalog loaded")

	return discounts, nil
}

// read reports found=false without error when the document does not exist.
func (l *Loader) read(ctx context.Context, name, kind string) ([]byte, bool, error) {
	data, err := l.source.Read(ctx, name)
	if err == nil {
		return data, true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn().
			Str("file", name).
			Msgf("%s catalog not found, continuing with an empty catalog", kind)
		return nil, false, nil
	}

	return nil, false, fmt.Errorf("failed to read %s catalog %s: %w", kind, name, err)
}

// DecodeProducts parses a JSON object mapping product id to record. The
// returned products keep the key order of the document.
func DecodeProducts(data []byte) ([]model.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err == io.EOF {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, model.ValidationErrorf("Product catalog is not valid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, model.ValidationErrorf("Product catalog must be a JSON object keyed by product id")
	}

	products := []model.Product{}
	seen := make(map[string]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, model.ValidationErrorf("Product catalog is not valid JSON: %v", err)
		}
		id := tok.(string)

		var rec productRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, model.ValidationErrorf("Product %q is malformed: %v", id, err)
		}

		product, err := rec.toProduct(id)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[id]; dup {
			return nil, model.ValidationErrorf("Product %q appears more than once", id)
		}
		seen[id] = struct{}{}
		products = append(products, product)
	}

	if _, err := dec.Token(); err != nil {
		return nil, model.ValidationErrorf("Product catalog is not valid JSON: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, model.ValidationErrorf("Product catalog has unexpected content after the closing brace")
	}

	return products, nil
}

func (r productRecord) toProduct(id string) (model.Product, error) {
	if r.Name == nil {
		return model.Product{}, model.ValidationErrorf("Product %q is missing required key %q", id, "name")
	}
	if r.Price == nil {
		return model.Product{}, model.ValidationErrorf("Product %q is missing required key %q", id, "price")
	}
	if r.Price.IsNegative() {
		return model.Product{}, model.ValidationErrorf("Product %q has negative price %s", id, r.Price.String())
	}

	return model.Product{
		ID:        id,
		Name:      *r.Name,
		Price:     r.Price.Decimal,
		Exclusive: r.Exclusive,
		Category:  r.Category,
	}, nil
}

// DecodeDiscounts parses a JSON list of discount records.
func DecodeDiscounts(data []byte) ([]*model.Discount, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []*model.Discount{}, nil
	}

	var records []discountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, model.ValidationErrorf("Discount catalog must be a JSON list of discounts: %v", err)
	}

	discounts := make([]*model.Discount, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if rec.Code == nil || *rec.Code == "" {
			return nil, model.ValidationErrorf("Discount #%d is missing required key %q", i+1, "code")
		}
		code := *rec.Code

		percentage := decimal.Zero
		if rec.Percentage != nil {
			percentage = rec.Percentage.Decimal
		}
		if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(1)) {
			return nil, model.ValidationErrorf("Discount %q has percentage %s outside [0, 1]", code, percentage.String())
		}

		if _, dup := seen[code]; dup {
			return nil, model.ValidationErrorf("Discount %q appears more than once", code)
		}
		seen[code] = struct{}{}

		discounts = append(discounts, model.NewDiscount(code, percentage, rec.UsedBy))
	}

	return discounts, nil
}
