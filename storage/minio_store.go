package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig points the store at an S3-compatible endpoint such as a local MinIO
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinioStore reads objects through minio-go
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore creates a new MinIO-backed store
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// Get opens the object body. The caller closes it.
func (s *MinioStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("minio store not initialized")
	}
	// GetObject is lazy; Stat surfaces missing objects before the body is read.
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio GetObject s3://%s/%s: %w", bucket, key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if code := minio.ToErrorResponse(err).Code; code == "NoSuchKey" || code == "NoSuchBucket" {
			return nil, fmt.Errorf("s3://%s/%s: %w: %v", bucket, key, ErrNotFound, err)
		}
		return nil, fmt.Errorf("minio stat s3://%s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// Download copies the object into w
func (s *MinioStore) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	body, err := s.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	return copyObject(body, bucket, key, w)
}
