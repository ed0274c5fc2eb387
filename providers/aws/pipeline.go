package aws

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
)

// maxSummaryLength is CodePipeline's limit on ExecutionDetails.Summary
const maxSummaryLength = 2048

// CodePipelineAPI is the subset of the CodePipeline client we call
type CodePipelineAPI interface {
	PutJobSuccessResult(ctx context.Context, params *codepipeline.PutJobSuccessResultInput, optFns ...func(*codepipeline.Options)) (*codepipeline.PutJobSuccessResultOutput, error)
	PutJobFailureResult(ctx context.Context, params *codepipeline.PutJobFailureResultInput, optFns ...func(*codepipeline.Options)) (*codepipeline.PutJobFailureResultOutput, error)
	StartPipelineExecution(ctx context.Context, params *codepipeline.StartPipelineExecutionInput, optFns ...func(*codepipeline.Options)) (*codepipeline.StartPipelineExecutionOutput, error)
}

// Pipeline reports job results to CodePipeline and starts executions
type Pipeline struct {
	api CodePipelineAPI
}

// NewPipeline creates a new CodePipeline adapter
func NewPipeline(api CodePipelineAPI) *Pipeline {
	return &Pipeline{api: api}
}

// ReportSuccess marks the job succeeded with message as the execution summary
func (p *Pipeline) ReportSuccess(ctx context.Context, jobID, message string) error {
	_, err := p.api.PutJobSuccessResult(ctx, &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
		ExecutionDetails: &types.ExecutionDetails{
			Summary: aws.String(truncate(message, maxSummaryLength)),
		},
	})
	if err != nil {
		return fmt.Errorf("codepipeline PutJobSuccessResult: %w", err)
	}
	return nil
}

// ReportFailure marks the job failed with type JobFailed
func (p *Pipeline) ReportFailure(ctx context.Context, jobID, message string) error {
	_, err := p.api.PutJobFailureResult(ctx, &codepipeline.PutJobFailureResultInput{
		JobId: aws.String(jobID),
		FailureDetails: &types.FailureDetails{
			Message: aws.String(truncate(message, maxSummaryLength)),
			Type:    types.FailureTypeJobFailed,
		},
	})
	if err != nil {
		return fmt.Errorf("codepipeline PutJobFailureResult: %w", err)
	}
	return nil
}

// StartExecution starts the named pipeline and returns the execution id
func (p *Pipeline) StartExecution(ctx context.Context, name string) (string, error) {
	result, err := p.api.StartPipelineExecution(ctx, &codepipeline.StartPipelineExecutionInput{
		Name: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("codepipeline StartPipelineExecution %s: %w", name, err)
	}
	return aws.ToString(result.PipelineExecutionId), nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
