package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"mini-kart-sim/internal/catalog"
	"mini-kart-sim/internal/cli"
	"mini-kart-sim/internal/config"
	"mini-kart-sim/internal/database"
	"mini-kart-sim/internal/repository"
	"mini-kart-sim/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(context.Background(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, errOut)
	logger.Info().Str("catalog_source", cfg.Catalog.Source).Msg("starting mini-kart shop")

	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Load catalogs once for the lifetime of the process
	st, err := loadStore(ctx, provider, closeProvider, logger)
	if err != nil {
		return err
	}

	shell := cli.New(st, in, out, logger)
	if err := shell.Run(ctx); err != nil {
		return fmt.Errorf("shell error: %w", err)
	}

	logger.Info().Msg("session ended")
	return nil
}

// loadStore reads both catalogs from provider and releases the provider
// before returning, whether or not loading succeeded.
func loadStore(ctx context.Context, provider catalog.Provider, release func(), logger zerolog.Logger) (*store.Store, error) {
	defer release()

	st, err := store.New(ctx, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	return st, nil
}

// newProvider builds the catalog provider selected by configuration. The
// returned close function releases any connections it holds.
func newProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Provider, func(), error) {
	fileSource := catalog.NewFileSource(logger)

	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewCatalogRepository(pool, logger), pool.Close, nil

	case config.SourceS3:
		var source catalog.Source
		s3Source, err := catalog.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local file system only")
			source = fileSource
		} else {
			source = catalog.NewFallbackSource(s3Source, fileSource, cfg.S3.Prefix, logger)
		}
		return catalog.NewLoader(source, cfg.Catalog.ProductsFile, cfg.Catalog.DiscountsFile, logger), func() {}, nil

	default:
		logger.Debug().Msg("using local file system for catalog files")
		return catalog.NewLoader(fileSource, cfg.Catalog.ProductsFile, cfg.Catalog.DiscountsFile, logger), func() {}, nil
	}
}
