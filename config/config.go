package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Suffix modes for generated training job names.
const (
	SuffixTimestamp = "timestamp"
	SuffixRandom    = "random"
)

// Artifact store backends.
const (
	StoreS3    = "s3"
	StoreMinio = "minio"
)

// Config holds the application configuration
type Config struct {
	// Dispatcher
	AppBundle        string // substring identifying the build-output artifact
	TrainingImage    string // ECR image reference without tag
	RoleARN          string // SageMaker execution role
	InputBucketURI   string
	OutputBucketURI  string
	BucketKeyARN     string // KMS key used for training output
	SourceRepository string // CodeCommit repo used to tag the image; optional
	SourceBranch     string
	JobNameSuffix    string

	// Logging
	LogLevel string

	// Server
	ServerPort string

	// AWS
	AWSRegion      string
	PricingEnabled bool
	PipelineName   string

	// Database (optional dispatch ledger)
	DatabaseURL string

	// Artifact store
	ArtifactStore  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppBundle:        getEnv("APP_BUNDLE", ""),
		TrainingImage:    getEnv("TRAINING_IMAGE", ""),
		RoleARN:          getEnv("SAGEMAKER_ROLE_ARN", ""),
		InputBucketURI:   getEnv("INPUT_BUCKET", ""),
		OutputBucketURI:  getEnv("OUTPUT_BUCKET", ""),
		BucketKeyARN:     getEnv("BUCKET_KEY_ARN", ""),
		SourceRepository: getEnv("CODE_COMMIT_REPO", ""),
		SourceBranch:     getEnv("CODE_COMMIT_BRANCH", "master"),
		JobNameSuffix:    strings.ToLower(getEnv("JOB_NAME_SUFFIX", SuffixTimestamp)),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		PricingEnabled:   getEnvBool("PRICING_ENABLED", false),
		PipelineName:     getEnv("PIPELINE_NAME", "ml_pipeline"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ArtifactStore:    strings.ToLower(getEnv("ARTIFACT_STORE", StoreS3)),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:      getEnvBool("MINIO_USE_SSL", false),
	}
}

// Validate checks the settings the dispatcher cannot run without.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"APP_BUNDLE", c.AppBundle},
		{"TRAINING_IMAGE", c.TrainingImage},
		{"SAGEMAKER_ROLE_ARN", c.RoleARN},
		{"INPUT_BUCKET", c.InputBucketURI},
		{"OUTPUT_BUCKET", c.OutputBucketURI},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.JobNameSuffix {
	case SuffixTimestamp, SuffixRandom:
	default:
		return fmt.Errorf("invalid JOB_NAME_SUFFIX %q (want %s or %s)", c.JobNameSuffix, SuffixTimestamp, SuffixRandom)
	}

	switch c.ArtifactStore {
	case StoreS3, StoreMinio:
	default:
		return fmt.Errorf("invalid ARTIFACT_STORE %q (want %s or %s)", c.ArtifactStore, StoreS3, StoreMinio)
	}
	return nil
}

// KMSKeyID returns the key id portion of BucketKeyARN
// (arn:aws:kms:region:acct:key/<id>), or "" when unset.
func (c *Config) KMSKeyID() string {
	if c.BucketKeyARN == "" {
		return ""
	}
	parts := strings.Split(c.BucketKeyARN, "/")
	return parts[len(parts)-1]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
