package repository

import (
	"context"
	"fmt"

	"mini-kart-sim/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// Products retrieves every product in insertion order.
func (r *catalogRepository) Products(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, price::text, exclusive, category
		FROM products
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var (
			p     model.Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Exclusive, &p.Category); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price of product %s: %w", p.ID, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// Discounts retrieves every discount code in insertion order.
func (r *catalogRepository) Discounts(ctx context.Context) ([]*model.Discount, error) {
	query := `
		SELECT code, discount_percentage::text, used_by
		FROM discounts
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discounts")
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	discounts := []*model.Discount{}
	for rows.Next() {
		var (
			code       string
			percentage string
			usedBy     []string
		)
		if err := rows.Scan(&code, &percentage, &usedBy); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discount row")
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}

		pct, err := decimal.NewFromString(percentage)
		if err != nil {
			return nil, fmt.Errorf("failed to parse percentage of discount %s: %w", code, err)
		}
		discounts = append(discounts, model.NewDiscount(code, pct, usedBy))
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating discount rows")
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	r.logger.Debug().Int("count", len(discounts)).Msg("retrieved discounts")

	return discounts, nil
}
