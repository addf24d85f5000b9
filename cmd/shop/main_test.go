package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mini-kart-sim/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Scenario(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRODUCTS_FILE", writeCatalog(t, dir, "products.json", `{"P1": {"name": "Widget", "price": 10.0}}`))
	t.Setenv("DISCOUNTS_FILE", writeCatalog(t, dir, "discounts.json", `[{"code": "SAVE10", "discount_percentage": 0.10}]`))

	input := strings.NewReader(strings.Join([]string{
		"1", "B", "C1", "Alice",
		"4", "a", "P1", "3",
		"6",
		"5", "SAVE10",
		"5", "SAVE10",
		"8",
	}, "\n") + "\n")
	var out, errOut bytes.Buffer

	err := run(context.Background(), input, &out, &errOut)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Total: $30.00")
	assert.Contains(t, out.String(), "New total: $27.00")
	assert.Contains(t, out.String(), "is already applied to this cart")
}

func TestRun_MissingCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRODUCTS_FILE", filepath.Join(dir, "products.json"))
	t.Setenv("DISCOUNTS_FILE", filepath.Join(dir, "discounts.json"))
	t.Setenv("LOG_FORMAT", "json")

	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader("1\nL\nC1\nLou\n2\n8\n"), &out, &errOut)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No products available.")
	assert.Contains(t, errOut.String(), "product catalog not found")
	assert.Contains(t, errOut.String(), "discount catalog not found")
}

func TestRun_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRODUCTS_FILE", writeCatalog(t, dir, "products.json", `{"P1": {"name": "Widget"}}`))
	t.Setenv("DISCOUNTS_FILE", filepath.Join(dir, "discounts.json"))

	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader("8\n"), &out, &errOut)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required key "price"`)
	assert.Empty(t, out.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "carrier-pigeon")

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalog source")
}

type stubProvider struct {
	products    []model.Product
	productsErr error
}

func (p *stubProvider) Products(ctx context.Context) ([]model.Product, error) {
	return p.products, p.productsErr
}

func (p *stubProvider) Discounts(ctx context.Context) ([]*model.Discount, error) {
	return nil, nil
}

func TestLoadStore_ReleasesProviderAfterLoading(t *testing.T) {
	tests := []struct {
		name        string
		provider    *stubProvider
		expectError bool
	}{
		{
			name: "Success",
			provider: &stubProvider{
				products: []model.Product{{ID: "P1", Name: "Widget", Price: decimal.NewFromInt(10)}},
			},
		},
		{
			name:        "Load failure",
			provider:    &stubProvider{productsErr: errors.New("connection reset")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			released := 0

			st, err := loadStore(context.Background(), tt.provider, func() { released++ }, zerolog.Nop())

			assert.Equal(t, 1, released)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, st)
				assert.Contains(t, err.Error(), "failed to load catalogs")
				return
			}
			require.NoError(t, err)
			_, err = st.GetProduct("P1")
			assert.NoError(t, err)
		})
	}
}
