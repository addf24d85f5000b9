package repository

import (
	"context"
	_ "embed"

	"mini-kart-sim/internal/model"
)

// Schema creates the catalog tables read by CatalogRepository.
//
//go:embed schema.sql
var Schema string

// CatalogRepository defines read access to the catalogs stored in PostgreSQL.
// It satisfies catalog.Provider.
type CatalogRepository interface {
	// Products retrieves every product in insertion order.
	Products(ctx context.Context) ([]model.Product, error)

	// Discounts retrieves every discount code in insertion order.
	Discounts(ctx context.Context) ([]*model.Discount, error)
}
