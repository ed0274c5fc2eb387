package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	err     error
	calls   int
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3StoreDownload(t *testing.T) {
	api := &fakeS3{objects: map[string]string{"b/k.zip": "zip-bytes"}}
	var buf bytes.Buffer

	require.NoError(t, NewS3Store(api).Download(context.Background(), "b", "k.zip", &buf))

	assert.Equal(t, "zip-bytes", buf.String())
	assert.Equal(t, 1, api.calls)
}

func TestS3StoreMissingObject(t *testing.T) {
	api := &fakeS3{objects: map[string]string{}}

	err := NewS3Store(api).Download(context.Background(), "b", "missing.zip", io.Discard)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "s3://b/missing.zip")
}

func TestS3StoreOtherErrors(t *testing.T) {
	cause := errors.New("AccessDenied")
	api := &fakeS3{err: cause}

	_, err := NewS3Store(api).Get(context.Background(), "b", "k.zip")

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestCopyObjectReportsReadErrors(t *testing.T) {
	err := copyObject(io.NopCloser(failingReader{}), "b", "k", io.Discard)

	assert.ErrorContains(t, err, "connection reset")
}

func TestNewMinioStore(t *testing.T) {
	_, err := NewMinioStore(MinioConfig{})
	assert.ErrorContains(t, err, "endpoint is required")

	store, err := NewMinioStore(MinioConfig{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123"})
	require.NoError(t, err)
	assert.NotNil(t, store)

	var nilStore *MinioStore
	_, err = nilStore.Get(context.Background(), "b", "k")
	assert.ErrorContains(t, err, "not initialized")
}
