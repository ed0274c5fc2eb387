// Package deploy turns a completed training job into a hosted SageMaker endpoint.
package deploy

import (
	"context"
	"fmt"

	"ml-pipeline/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// DefaultInstanceType hosts the endpoint when the request names none
const DefaultInstanceType = "ml.m4.xlarge"

// SageMakerAPI is the subset of the SageMaker client used for deployment
type SageMakerAPI interface {
	DescribeTrainingJob(ctx context.Context, params *sagemaker.DescribeTrainingJobInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeTrainingJobOutput, error)
	ListTags(ctx context.Context, params *sagemaker.ListTagsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListTagsOutput, error)
	CreateModel(ctx context.Context, params *sagemaker.CreateModelInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateModelOutput, error)
	CreateEndpointConfig(ctx context.Context, params *sagemaker.CreateEndpointConfigInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointConfigOutput, error)
	CreateEndpoint(ctx context.Context, params *sagemaker.CreateEndpointInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointOutput, error)
}

// Request names the training job to deploy and where
type Request struct {
	TrainingJobName string
	Project         string // "census"
	Environment     string // "production"
	Version         string // "1"
	InstanceType    string
}

// EndpointConfigName is "<project>-v<version>"
func (r Request) EndpointConfigName() string {
	return r.Project + "-v" + r.Version
}

// EndpointName is "<project>-<environment>"
func (r Request) EndpointName() string {
	return r.Project + "-" + r.Environment
}

func (r Request) validate() error {
	switch {
	case r.TrainingJobName == "":
		return fmt.Errorf("training job name is required")
	case r.Project == "":
		return fmt.Errorf("project is required")
	case r.Environment == "":
		return fmt.Errorf("environment is required")
	case r.Version == "":
		return fmt.Errorf("version is required")
	}
	return nil
}

// Result holds the ARNs of everything Deploy created
type Result struct {
	ModelARN          string
	EndpointConfigARN string
	EndpointARN       string
}

// Deployer creates model, endpoint config and endpoint in that order
type Deployer struct {
	api SageMakerAPI
}

// NewDeployer creates a new deployer
func NewDeployer(api SageMakerAPI) *Deployer {
	return &Deployer{api: api}
}

// Deploy publishes the artifacts of a completed training job behind an endpoint.
// The model is named after the training job and inherits its tags.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	logger := logging.WithComponent("deploy").With("training_job", req.TrainingJobName)

	job, err := d.api.DescribeTrainingJob(ctx, &sagemaker.DescribeTrainingJobInput{
		TrainingJobName: aws.String(req.TrainingJobName),
	})
	if err != nil {
		return nil, fmt.Errorf("describe training job %s: %w", req.TrainingJobName, err)
	}
	if job.TrainingJobStatus != types.TrainingJobStatusCompleted {
		return nil, fmt.Errorf("training job %s is %s, not %s",
			req.TrainingJobName, job.TrainingJobStatus, types.TrainingJobStatusCompleted)
	}

	tags, err := d.api.ListTags(ctx, &sagemaker.ListTagsInput{ResourceArn: job.TrainingJobArn})
	if err != nil {
		return nil, fmt.Errorf("list tags for %s: %w", req.TrainingJobName, err)
	}

	container := &types.ContainerDefinition{}
	if job.AlgorithmSpecification != nil {
		container.Image = job.AlgorithmSpecification.TrainingImage
	}
	if job.ModelArtifacts != nil {
		container.ModelDataUrl = job.ModelArtifacts.S3ModelArtifacts
	}

	modelName := aws.String(req.TrainingJobName)
	model, err := d.api.CreateModel(ctx, &sagemaker.CreateModelInput{
		ModelName:        modelName,
		PrimaryContainer: container,
		ExecutionRoleArn: job.RoleArn,
		Tags:             tags.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create model %s: %w", req.TrainingJobName, err)
	}
	logger.Info("model created", "model_arn", aws.ToString(model.ModelArn))

	instanceType := req.InstanceType
	if instanceType == "" {
		instanceType = DefaultInstanceType
	}
	configName := req.EndpointConfigName()
	endpointConfig, err := d.api.CreateEndpointConfig(ctx, &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String(configName),
		ProductionVariants: []types.ProductionVariant{
			{
				VariantName:          aws.String(configName),
				ModelName:            modelName,
				InitialInstanceCount: aws.Int32(1),
				InstanceType:         types.ProductionVariantInstanceType(instanceType),
			},
		},
		Tags: tags.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create endpoint config %s: %w", configName, err)
	}
	logger.Info("endpoint config created", "endpoint_config", configName)

	endpointName := req.EndpointName()
	endpoint, err := d.api.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String(endpointName),
		EndpointConfigName: aws.String(configName),
		Tags:               tags.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create endpoint %s: %w", endpointName, err)
	}
	logger.Info("endpoint creation started", "endpoint", endpointName)

	return &Result{
		ModelARN:          aws.ToString(model.ModelArn),
		EndpointConfigARN: aws.ToString(endpointConfig.EndpointConfigArn),
		EndpointARN:       aws.ToString(endpoint.EndpointArn),
	}, nil
}
