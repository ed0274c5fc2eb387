package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDescriber struct {
	statuses []types.TrainingJobStatus
	calls    int
	err      error
}

func (s *scriptedDescriber) DescribeTrainingJob(_ context.Context, in *sagemaker.DescribeTrainingJobInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeTrainingJobOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	status := s.statuses[len(s.statuses)-1]
	if s.calls < len(s.statuses) {
		status = s.statuses[s.calls]
	}
	s.calls++

	start := time.Date(2018, 1, 23, 18, 55, 0, 0, time.UTC)
	out := &sagemaker.DescribeTrainingJobOutput{
		TrainingJobName:   in.TrainingJobName,
		TrainingJobStatus: status,
		SecondaryStatus:   types.SecondaryStatus(status),
		TrainingStartTime: &start,
	}
	switch status {
	case types.TrainingJobStatusCompleted:
		end := start.Add(40 * time.Minute)
		out.TrainingEndTime = &end
		out.ModelArtifacts = &types.ModelArtifacts{S3ModelArtifacts: aws.String("s3://out/model.tar.gz")}
	case types.TrainingJobStatusFailed:
		out.FailureReason = aws.String("AlgorithmError: exit code 1")
	}
	return out, nil
}

func TestWaitUntilCompleted(t *testing.T) {
	api := &scriptedDescriber{statuses: []types.TrainingJobStatus{
		types.TrainingJobStatusInProgress,
		types.TrainingJobStatusInProgress,
		types.TrainingJobStatusCompleted,
	}}

	m, err := NewJobMonitor(api, time.Millisecond).Wait(context.Background(), "census-18-01-23-18-54")

	require.NoError(t, err)
	assert.Equal(t, 3, api.calls)
	assert.Equal(t, "s3://out/model.tar.gz", m.ModelArtifacts)
	assert.Equal(t, 40*time.Minute, m.ElapsedTime)
}

func TestWaitReportsFailedJobs(t *testing.T) {
	api := &scriptedDescriber{statuses: []types.TrainingJobStatus{types.TrainingJobStatusFailed}}

	m, err := NewJobMonitor(api, time.Millisecond).Wait(context.Background(), "census")

	assert.ErrorContains(t, err, "AlgorithmError")
	require.NotNil(t, m)
	assert.True(t, m.Terminal())
}

func TestWaitHonorsContext(t *testing.T) {
	api := &scriptedDescriber{statuses: []types.TrainingJobStatus{types.TrainingJobStatusInProgress}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewJobMonitor(api, time.Millisecond).Wait(ctx, "census")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetJobMetricsError(t *testing.T) {
	api := &scriptedDescriber{err: errors.New("ValidationException: job not found")}

	_, err := NewJobMonitor(api, 0).GetJobMetrics(context.Background(), "missing")

	assert.ErrorContains(t, err, "missing")
	assert.ErrorContains(t, err, "ValidationException")
}
