package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// GCS stores blobs in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.BlobStorage = &GCS{}

// GCSOption configures GCS
type GCSOption func(*gcsConfig)

type gcsConfig struct {
	prefix          string
	credentialsFile string
	clientOpts      []option.ClientOption
}

// WithPrefix stores every object under the given path prefix
func WithPrefix(prefix string) GCSOption {
	return func(c *gcsConfig) {
		c.prefix = prefix
	}
}

// WithCredentialsFile authenticates with a service account key instead of ADC
func WithCredentialsFile(path string) GCSOption {
	return func(c *gcsConfig) {
		c.credentialsFile = path
	}
}

// WithClientOptions passes extra options to the Cloud Storage client, such as an endpoint
func WithClientOptions(opts ...option.ClientOption) GCSOption {
	return func(c *gcsConfig) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	var cfg gcsConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := cfg.clientOpts
	if cfg.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.credentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: cfg.prefix,
	}, nil
}

func (s *GCS) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, key))
}

func (s *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	// closing the writer commits the object, so a failed copy aborts by cancelling
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		return goerr.Wrap(err, "failed to upload object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return nil
}

func (s *GCS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "blob not found", goerr.V("bucket", s.bucket), goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return r, nil
}

func (s *GCS) Delete(ctx context.Context, key string) error {
	if err := s.object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(ErrNotFound, "blob not found", goerr.V("bucket", s.bucket), goerr.V("key", key))
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return nil
}

// Close releases the underlying client
func (s *GCS) Close() error {
	return s.client.Close()
}
