package aws

import (
	"context"
	"fmt"

	"ml-pipeline/core/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// SageMakerAPI is the subset of the SageMaker client used for training
type SageMakerAPI interface {
	CreateTrainingJob(ctx context.Context, params *sagemaker.CreateTrainingJobInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateTrainingJobOutput, error)
}

// TrainingJobs submits training jobs to SageMaker
type TrainingJobs struct {
	api SageMakerAPI
}

// NewTrainingJobs creates a new training adapter
func NewTrainingJobs(api SageMakerAPI) *TrainingJobs {
	return &TrainingJobs{api: api}
}

// CreateTrainingJob starts the job and returns its ARN
func (t *TrainingJobs) CreateTrainingJob(ctx context.Context, req *models.TrainingJobRequest) (string, error) {
	result, err := t.api.CreateTrainingJob(ctx, buildTrainingJobInput(req))
	if err != nil {
		return "", fmt.Errorf("sagemaker CreateTrainingJob: %w", err)
	}
	return aws.ToString(result.TrainingJobArn), nil
}

func buildTrainingJobInput(req *models.TrainingJobRequest) *sagemaker.CreateTrainingJobInput {
	input := &sagemaker.CreateTrainingJobInput{
		TrainingJobName: aws.String(req.Name),
		HyperParameters: req.HyperParameters,
		AlgorithmSpecification: &types.AlgorithmSpecification{
			TrainingInputMode: types.TrainingInputMode(req.InputMode),
			TrainingImage:     aws.String(req.TrainingImage),
		},
		RoleArn: aws.String(req.RoleARN),
		InputDataConfig: []types.Channel{
			{
				ChannelName:       aws.String(models.TrainingChannelName),
				CompressionType:   types.CompressionTypeNone,
				RecordWrapperType: types.RecordWrapperNone,
				DataSource: &types.DataSource{
					S3DataSource: &types.S3DataSource{
						S3DataType:             types.S3DataTypeS3Prefix,
						S3DataDistributionType: types.S3DataDistributionFullyReplicated,
						S3Uri:                  aws.String(req.InputDataURI),
					},
				},
			},
		},
		OutputDataConfig: &types.OutputDataConfig{
			S3OutputPath: aws.String(req.OutputPath),
		},
		ResourceConfig: &types.ResourceConfig{
			InstanceType:   types.TrainingInstanceType(req.ResourceConfig.InstanceType),
			InstanceCount:  aws.Int32(req.ResourceConfig.InstanceCount),
			VolumeSizeInGB: aws.Int32(req.ResourceConfig.VolumeSizeInGB),
		},
		StoppingCondition: &types.StoppingCondition{
			MaxRuntimeInSeconds: aws.Int32(req.StoppingCondition.MaxRuntimeInSeconds),
		},
		Tags: toSageMakerTags(req.Tags),
	}

	if req.KMSKeyID != "" {
		input.OutputDataConfig.KmsKeyId = aws.String(req.KMSKeyID)
	}
	return input
}

func toSageMakerTags(tags []models.Tag) []types.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]types.Tag, len(tags))
	for i, tag := range tags {
		out[i] = types.Tag{
			Key:   aws.String(tag.Key),
			Value: aws.String(tag.Value),
		}
	}
	return out
}
