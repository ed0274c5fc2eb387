package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_BUNDLE", "build_output")
	t.Setenv("TRAINING_IMAGE", "123456789012.dkr.ecr.us-west-2.amazonaws.com/tf-dock")
	t.Setenv("SAGEMAKER_ROLE_ARN", "arn:aws:iam::123456789012:role/sagemaker")
	t.Setenv("INPUT_BUCKET", "s3://input/")
	t.Setenv("OUTPUT_BUCKET", "s3://output/")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	assert.Equal(t, "build_output", cfg.AppBundle)
	assert.Equal(t, "master", cfg.SourceBranch)
	assert.Equal(t, SuffixTimestamp, cfg.JobNameSuffix)
	assert.Equal(t, StoreS3, cfg.ArtifactStore)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.PricingEnabled)
	assert.Equal(t, "ml_pipeline", cfg.PipelineName)
	require.NoError(t, cfg.Validate())
}

func TestValidateReportsAllMissing(t *testing.T) {
	cfg := &Config{JobNameSuffix: SuffixTimestamp, ArtifactStore: StoreS3}

	err := cfg.Validate()

	require.Error(t, err)
	for _, name := range []string{"APP_BUNDLE", "TRAINING_IMAGE", "SAGEMAKER_ROLE_ARN", "INPUT_BUCKET", "OUTPUT_BUCKET"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestValidateRejectsUnknownModes(t *testing.T) {
	setRequired(t)

	t.Setenv("JOB_NAME_SUFFIX", "uuid")
	assert.ErrorContains(t, Load().Validate(), "JOB_NAME_SUFFIX")

	t.Setenv("JOB_NAME_SUFFIX", "RANDOM")
	t.Setenv("ARTIFACT_STORE", "gcs")
	assert.ErrorContains(t, Load().Validate(), "ARTIFACT_STORE")
}

func TestBoolEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("PRICING_ENABLED", "sure")
	assert.False(t, Load().PricingEnabled)

	t.Setenv("PRICING_ENABLED", "true")
	assert.True(t, Load().PricingEnabled)
}

func TestKMSKeyID(t *testing.T) {
	cfg := &Config{BucketKeyARN: "arn:aws:kms:us-west-2:123456789012:key/1234abcd-12ab-34cd-56ef-1234567890ab"}
	assert.Equal(t, "1234abcd-12ab-34cd-56ef-1234567890ab", cfg.KMSKeyID())

	assert.Equal(t, "", (&Config{}).KMSKeyID())
}
