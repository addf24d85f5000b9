package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"mini-kart-sim/internal/model"
)

// Source reads raw catalog documents by name.
type Source interface {
	// Read returns the contents of the named document. A document that does
	// not exist yields an error matching fs.ErrNotExist.
	Read(ctx context.Context, name string) ([]byte, error)
}

// Provider supplies the product and discount catalogs.
type Provider interface {
	// Products returns the product catalog in catalog order.
	Products(ctx context.Context) ([]model.Product, error)

	// Discounts returns the discount catalog in catalog order.
	Discounts(ctx context.Context) ([]*model.Discount, error)
}

// readDocument reads r fully, gunzipping it when name ends in .gz.
func readDocument(r io.Reader, name string) ([]byte, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog document %s: %w", name, err)
	}
	return data, nil
}
