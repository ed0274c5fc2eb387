package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound is returned when the bucket or key does not exist
var ErrNotFound = errors.New("object not found")

// S3API is the subset of the S3 client we call
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads objects from Amazon S3
type S3Store struct {
	api S3API
}

// NewS3Store creates a new S3-backed store
func NewS3Store(api S3API) *S3Store {
	return &S3Store{api: api}
}

// Get opens the object body. The caller closes it.
func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("s3://%s/%s: %w: %v", bucket, key, ErrNotFound, err)
		}
		return nil, fmt.Errorf("s3 GetObject s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// Download copies the object into w
func (s *S3Store) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	body, err := s.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	return copyObject(body, bucket, key, w)
}
