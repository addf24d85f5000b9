package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileSource implements Source for catalog files on the local file system.
type fileSource struct {
	logger zerolog.Logger
}

// NewFileSource creates a new file-based catalog source.
func NewFileSource(logger zerolog.Logger) Source {
	return &fileSource{
		logger: logger.With().Str("component", "catalog-file-source").Logger(),
	}
}

// Read returns the contents of a catalog file. Files ending in .gz are
// decompressed.
func (s *fileSource) Read(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("file", filePath).Msg("reading catalog file")

	file, err := os.Open(filePath)
	if err != nil {
		s.logger.Debug().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readDocument(file, filePath)
	if err != nil {
		s.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalog file")
		return nil, err
	}

	s.logger.Debug().
		Str("file", filePath).
		Int("bytes", len(data)).
		Msg("catalog file read")

	return data, nil
}
