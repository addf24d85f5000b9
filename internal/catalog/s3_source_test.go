package catalog

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSource is a mock implementation of the Source interface for testing.
type mockSource struct {
	readFunc func(ctx context.Context, name string) ([]byte, error)
}

func (m *mockSource) Read(ctx context.Context, name string) ([]byte, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, name)
	}
	return nil, errors.New("not implemented")
}

// MockObjectGetter is a mock implementation of ObjectGetter.
type MockObjectGetter struct {
	mock.Mock
}

func (m *MockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Source_Read_Success(t *testing.T) {
	ctx := context.Background()
	client := new(MockObjectGetter)
	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == "shop-bucket" && *in.Key == "catalog/products.json"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(`{"P1": {"name": "Widget", "price": 10}}`)),
	}, nil)

	source := NewS3SourceWithClient(client, "shop-bucket", zerolog.Nop())
	data, err := source.Read(ctx, "catalog/products.json")

	require.NoError(t, err)
	assert.Contains(t, string(data), "Widget")
	client.AssertExpectations(t)
}

func TestS3Source_Read_NoSuchKey(t *testing.T) {
	ctx := context.Background()
	client := new(MockObjectGetter)
	client.On("GetObject", ctx, mock.Anything).Return(nil, &types.NoSuchKey{})

	source := NewS3SourceWithClient(client, "shop-bucket", zerolog.Nop())
	data, err := source.Read(ctx, "catalog/missing.json")

	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestS3Source_Read_ClientError(t *testing.T) {
	ctx := context.Background()
	client := new(MockObjectGetter)
	client.On("GetObject", ctx, mock.Anything).Return(nil, errors.New("access denied"))

	source := NewS3SourceWithClient(client, "shop-bucket", zerolog.Nop())
	_, err := source.Read(ctx, "catalog/products.json")

	require.Error(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "access denied")
}

func TestFallbackSource_S3Success(t *testing.T) {
	s3Source := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			assert.Equal(t, "catalog/products.json", name, "S3 key should have prefix")
			return []byte("from-s3"), nil
		},
	}
	fileSource := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			t.Error("file source should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackSource(s3Source, fileSource, "catalog/", zerolog.Nop())

	data, err := fallback.Read(context.Background(), "products.json")
	require.NoError(t, err)
	assert.Equal(t, "from-s3", string(data))
}

func TestFallbackSource_S3FailsFallsBackToLocal(t *testing.T) {
	s3Source := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileSource := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			assert.Equal(t, "products.json", name, "local path should not have prefix")
			return []byte("from-disk"), nil
		},
	}

	fallback := NewFallbackSource(s3Source, fileSource, "catalog/", zerolog.Nop())

	data, err := fallback.Read(context.Background(), "products.json")
	require.NoError(t, err)
	assert.Equal(t, "from-disk", string(data))
}

func TestFallbackSource_S3SourceNil(t *testing.T) {
	fileSource := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			return []byte("from-disk"), nil
		},
	}

	fallback := NewFallbackSource(nil, fileSource, "catalog/", zerolog.Nop())

	data, err := fallback.Read(context.Background(), "products.json")
	require.NoError(t, err)
	assert.Equal(t, "from-disk", string(data))
}

func TestFallbackSource_BothMissing(t *testing.T) {
	s3Source := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			return nil, fs.ErrNotExist
		},
	}
	fileSource := &mockSource{
		readFunc: func(ctx context.Context, name string) ([]byte, error) {
			return nil, fs.ErrNotExist
		},
	}

	fallback := NewFallbackSource(s3Source, fileSource, "catalog/", zerolog.Nop())

	data, err := fallback.Read(context.Background(), "products.json")
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFallbackSource_PrefixHandling(t *testing.T) {
	tests := []struct {
		name       string
		s3Prefix   string
		filePath   string
		expectedS3 string
	}{
		{
			name:       "prefix with trailing slash",
			s3Prefix:   "catalog/",
			filePath:   "products.json",
			expectedS3: "catalog/products.json",
		},
		{
			name:       "empty prefix",
			s3Prefix:   "",
			filePath:   "products.json",
			expectedS3: "products.json",
		},
		{
			name:       "nested prefix",
			s3Prefix:   "shop/prod/catalog/",
			filePath:   "discounts.json.gz",
			expectedS3: "shop/prod/catalog/discounts.json.gz",
		},
		{
			name:       "local directories are not part of the key",
			s3Prefix:   "catalog/",
			filePath:   "data/products.json",
			expectedS3: "catalog/products.json",
		},
		{
			name:       "absolute local path",
			s3Prefix:   "catalog/",
			filePath:   "/srv/shop/data/discounts.json.gz",
			expectedS3: "catalog/discounts.json.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3Source := &mockSource{
				readFunc: func(ctx context.Context, name string) ([]byte, error) {
					assert.Equal(t, tt.expectedS3, name)
					return []byte{}, nil
				},
			}

			fallback := NewFallbackSource(s3Source, &mockSource{}, tt.s3Prefix, zerolog.Nop())
			_, err := fallback.Read(context.Background(), tt.filePath)
			assert.NoError(t, err)
		})
	}
}
