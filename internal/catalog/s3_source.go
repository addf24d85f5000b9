package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used by the S3 source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source implements Source for catalog documents stored in AWS S3.
type s3Source struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Source creates a catalog source backed by an S3 bucket, using the
// default AWS credential chain.
func NewS3Source(ctx context.Context, bucket, region string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "catalog-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 catalog source initialised")

	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3SourceWithClient creates an S3 source over an existing client.
func NewS3SourceWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Read fetches the object at key. A missing key yields fs.ErrNotExist.
func (s *s3Source) Read(ctx context.Context, key string) ([]byte, error) {
	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("loading catalog document from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("object s3://%s/%s: %w", s.bucket, key, fs.ErrNotExist)
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	defer result.Body.Close()

	return readDocument(result.Body, key)
}

// fallbackSource tries S3 first, then falls back to the local file system.
type fallbackSource struct {
	s3Source   Source
	fileSource Source
	s3Prefix   string
	logger     zerolog.Logger
}

// NewFallbackSource creates a source that tries S3 first, then the local file
// system. If s3Source is nil, only the file source is used.
func NewFallbackSource(s3Source, fileSource Source, s3Prefix string, logger zerolog.Logger) Source {
	return &fallbackSource{
		s3Source:   s3Source,
		fileSource: fileSource,
		s3Prefix:   s3Prefix,
		logger:     logger.With().Str("component", "catalog-fallback-source").Logger(),
	}
}

// Read attempts the S3 key s3Prefix plus the base name of name, then the
// local path name.
func (s *fallbackSource) Read(ctx context.Context, name string) ([]byte, error) {
	if s.s3Source != nil {
		s3Key := s.s3Prefix + filepath.Base(name)

		data, err := s.s3Source.Read(ctx, s3Key)
		if err == nil {
			s.logger.Info().
				Str("s3_key", s3Key).
				Msg("loaded catalog document from S3")
			return data, nil
		}

		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load from S3, falling back to local file system")
	} else {
		s.logger.Debug().Msg("S3 not configured, using local file system")
	}

	return s.fileSource.Read(ctx, name)
}
