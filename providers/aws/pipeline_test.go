package aws

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"
	cctypes "github.com/aws/aws-sdk-go-v2/service/codecommit/types"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCodePipeline struct {
	success *codepipeline.PutJobSuccessResultInput
	failure *codepipeline.PutJobFailureResultInput
	started *codepipeline.StartPipelineExecutionInput
	err     error
}

func (f *fakeCodePipeline) PutJobSuccessResult(_ context.Context, params *codepipeline.PutJobSuccessResultInput, _ ...func(*codepipeline.Options)) (*codepipeline.PutJobSuccessResultOutput, error) {
	f.success = params
	return &codepipeline.PutJobSuccessResultOutput{}, f.err
}

func (f *fakeCodePipeline) PutJobFailureResult(_ context.Context, params *codepipeline.PutJobFailureResultInput, _ ...func(*codepipeline.Options)) (*codepipeline.PutJobFailureResultOutput, error) {
	f.failure = params
	return &codepipeline.PutJobFailureResultOutput{}, f.err
}

func (f *fakeCodePipeline) StartPipelineExecution(_ context.Context, params *codepipeline.StartPipelineExecutionInput, _ ...func(*codepipeline.Options)) (*codepipeline.StartPipelineExecutionOutput, error) {
	f.started = params
	if f.err != nil {
		return nil, f.err
	}
	return &codepipeline.StartPipelineExecutionOutput{PipelineExecutionId: aws.String("exec-1")}, nil
}

func TestReportSuccess(t *testing.T) {
	api := &fakeCodePipeline{}

	require.NoError(t, NewPipeline(api).ReportSuccess(context.Background(), "job-1", "started job: arn"))

	assert.Equal(t, "job-1", aws.ToString(api.success.JobId))
	assert.Equal(t, "started job: arn", aws.ToString(api.success.ExecutionDetails.Summary))
	assert.Nil(t, api.failure)
}

func TestReportFailure(t *testing.T) {
	api := &fakeCodePipeline{}

	require.NoError(t, NewPipeline(api).ReportFailure(context.Background(), "job-1", strings.Repeat("x", 3000)))

	assert.Equal(t, "job-1", aws.ToString(api.failure.JobId))
	assert.Equal(t, types.FailureTypeJobFailed, api.failure.FailureDetails.Type)
	assert.Len(t, aws.ToString(api.failure.FailureDetails.Message), maxSummaryLength)
}

func TestReportFailureKeepsRunesWhole(t *testing.T) {
	api := &fakeCodePipeline{}
	// 2047 ASCII bytes then a 3-byte rune straddling the limit.
	message := strings.Repeat("x", maxSummaryLength-1) + "€€"

	require.NoError(t, NewPipeline(api).ReportFailure(context.Background(), "job-1", message))

	got := aws.ToString(api.failure.FailureDetails.Message)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("x", maxSummaryLength-1), got)
}

func TestReportErrorsAreWrapped(t *testing.T) {
	cause := errors.New("InvalidJobStateException")
	p := NewPipeline(&fakeCodePipeline{err: cause})

	assert.ErrorIs(t, p.ReportSuccess(context.Background(), "job-1", "m"), cause)
	assert.ErrorIs(t, p.ReportFailure(context.Background(), "job-1", "m"), cause)
}

func TestStartExecution(t *testing.T) {
	api := &fakeCodePipeline{}

	id, err := NewPipeline(api).StartExecution(context.Background(), "ml_pipeline")

	require.NoError(t, err)
	assert.Equal(t, "exec-1", id)
	assert.Equal(t, "ml_pipeline", aws.ToString(api.started.Name))
}

type fakeCodeCommit struct {
	commit string
	err    error
}

func (f *fakeCodeCommit) GetBranch(_ context.Context, params *codecommit.GetBranchInput, _ ...func(*codecommit.Options)) (*codecommit.GetBranchOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.commit == "" {
		return &codecommit.GetBranchOutput{}, nil
	}
	return &codecommit.GetBranchOutput{Branch: &cctypes.BranchInfo{
		BranchName: params.BranchName,
		CommitId:   aws.String(f.commit),
	}}, nil
}

func TestBranchHead(t *testing.T) {
	commit, err := NewSourceRepository(&fakeCodeCommit{commit: "4c2a9f1"}).BranchHead(context.Background(), "repo", "master")
	require.NoError(t, err)
	assert.Equal(t, "4c2a9f1", commit)

	_, err = NewSourceRepository(&fakeCodeCommit{}).BranchHead(context.Background(), "repo", "master")
	assert.ErrorContains(t, err, "has no commit")

	_, err = NewSourceRepository(&fakeCodeCommit{err: errors.New("RepositoryDoesNotExistException")}).BranchHead(context.Background(), "repo", "master")
	assert.ErrorContains(t, err, "RepositoryDoesNotExistException")
}
