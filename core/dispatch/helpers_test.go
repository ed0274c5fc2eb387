package dispatch

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"ml-pipeline/config"

	"github.com/stretchr/testify/require"
)

const censusManifest = `{
  "training_job_name": "census",
  "hyperparameters": {},
  "resource_config": {"instance_type": "ml.p2.8xlarge", "instance_count": 1, "volume_size_in_gb": 1},
  "stopping_condition": {"max_runtime_in_seconds": 86400}
}`

var fixedNow = time.Date(2018, time.January, 23, 18, 54, 12, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		AppBundle:       "build_output",
		TrainingImage:   "123456789012.dkr.ecr.us-west-2.amazonaws.com/tf-dock",
		RoleARN:         "arn:aws:iam::123456789012:role/sagemaker",
		InputBucketURI:  "s3://census-input/",
		OutputBucketURI: "s3://census-output/output/",
		BucketKeyARN:    "arn:aws:kms:us-west-2:123456789012:key/1234abcd",
		SourceBranch:    "master",
		JobNameSuffix:   config.SuffixTimestamp,
		ArtifactStore:   config.StoreS3,
	}
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// serve returns a Download implementation that writes data.
func serve(data []byte) func(context.Context, string, string, io.Writer) error {
	return func(_ context.Context, _, _ string, w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}
