package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
)

// pricingRegion hosts the Price List API endpoint
const pricingRegion = "us-east-1"

// Client is the AWS provider client
type Client struct {
	s3Client           *s3.Client
	sageMakerClient    *sagemaker.Client
	codePipelineClient *codepipeline.Client
	codeCommitClient   *codecommit.Client
	athenaClient       *athena.Client
	pricingClient      *pricing.Client
	region             string
}

// NewClient creates a new AWS client
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &Client{
		s3Client:           s3.NewFromConfig(cfg),
		sageMakerClient:    sagemaker.NewFromConfig(cfg),
		codePipelineClient: codepipeline.NewFromConfig(cfg),
		codeCommitClient:   codecommit.NewFromConfig(cfg),
		athenaClient:       athena.NewFromConfig(cfg),
		pricingClient: pricing.NewFromConfig(cfg, func(o *pricing.Options) {
			o.Region = pricingRegion
		}),
		region: region,
	}, nil
}

// Region returns the region the clients were configured for
func (c *Client) Region() string {
	return c.region
}

// S3 returns the raw S3 client
func (c *Client) S3() *s3.Client {
	return c.s3Client
}

// SageMaker returns the raw SageMaker client
func (c *Client) SageMaker() *sagemaker.Client {
	return c.sageMakerClient
}

// Athena returns the raw Athena client
func (c *Client) Athena() *athena.Client {
	return c.athenaClient
}

// TrainingJobs returns the SageMaker training adapter
func (c *Client) TrainingJobs() *TrainingJobs {
	return NewTrainingJobs(c.sageMakerClient)
}

// Pipeline returns the CodePipeline adapter
func (c *Client) Pipeline() *Pipeline {
	return NewPipeline(c.codePipelineClient)
}

// SourceRepository returns the CodeCommit adapter
func (c *Client) SourceRepository() *SourceRepository {
	return NewSourceRepository(c.codeCommitClient)
}

// Pricing returns the Price List adapter
func (c *Client) Pricing() *PriceList {
	return NewPriceList(c.pricingClient, c.region)
}
