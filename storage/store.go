package storage

import (
	"context"
	"fmt"
	"io"
)

// Store abstracts S3-compatible object storage
type Store interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Download(ctx context.Context, bucket, key string, w io.Writer) error
}

// copyObject streams an object body into w and closes it.
func copyObject(body io.ReadCloser, bucket, key string, w io.Writer) error {
	defer body.Close()
	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
