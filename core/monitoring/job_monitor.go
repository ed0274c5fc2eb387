package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ml-pipeline/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// TrainingJobDescriber is the SageMaker call the monitor polls
type TrainingJobDescriber interface {
	DescribeTrainingJob(ctx context.Context, params *sagemaker.DescribeTrainingJobInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeTrainingJobOutput, error)
}

// JobMetrics is a snapshot of a training job
type JobMetrics struct {
	TrainingJobName string
	Status          types.TrainingJobStatus
	SecondaryStatus types.SecondaryStatus
	FailureReason   string
	ModelArtifacts  string
	StartTime       *time.Time
	ElapsedTime     time.Duration
	BillableSeconds int32
}

// Terminal reports whether the job will not change status again
func (m *JobMetrics) Terminal() bool {
	switch m.Status {
	case types.TrainingJobStatusCompleted, types.TrainingJobStatusFailed, types.TrainingJobStatusStopped:
		return true
	}
	return false
}

// JobMonitor follows a training job started by the dispatcher
type JobMonitor struct {
	api      TrainingJobDescriber
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewJobMonitor creates a new job monitor that polls every interval
func NewJobMonitor(api TrainingJobDescriber, interval time.Duration) *JobMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &JobMonitor{
		api:      api,
		interval: interval,
		now:      time.Now,
		logger:   logging.WithComponent("job_monitor"),
	}
}

// GetJobMetrics describes the job once
func (jm *JobMonitor) GetJobMetrics(ctx context.Context, name string) (*JobMetrics, error) {
	out, err := jm.api.DescribeTrainingJob(ctx, &sagemaker.DescribeTrainingJobInput{
		TrainingJobName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("describe training job %s: %w", name, err)
	}

	metrics := &JobMetrics{
		TrainingJobName: name,
		Status:          out.TrainingJobStatus,
		SecondaryStatus: out.SecondaryStatus,
		FailureReason:   aws.ToString(out.FailureReason),
		StartTime:       out.TrainingStartTime,
		BillableSeconds: aws.ToInt32(out.BillableTimeInSeconds),
	}
	if out.ModelArtifacts != nil {
		metrics.ModelArtifacts = aws.ToString(out.ModelArtifacts.S3ModelArtifacts)
	}
	if out.TrainingStartTime != nil {
		end := jm.now()
		if out.TrainingEndTime != nil {
			end = *out.TrainingEndTime
		}
		metrics.ElapsedTime = end.Sub(*out.TrainingStartTime)
	}
	return metrics, nil
}

// Wait polls until the job reaches a terminal status. A job that ends in
// anything but Completed is returned together with an error.
func (jm *JobMonitor) Wait(ctx context.Context, name string) (*JobMetrics, error) {
	ticker := time.NewTicker(jm.interval)
	defer ticker.Stop()

	logger := jm.logger.With("training_job", name)
	var last types.SecondaryStatus
	for {
		metrics, err := jm.GetJobMetrics(ctx, name)
		if err != nil {
			return nil, err
		}
		if metrics.SecondaryStatus != last {
			logger.Info("training job status",
				"status", metrics.Status,
				"secondary_status", metrics.SecondaryStatus,
				"elapsed", metrics.ElapsedTime.String(),
			)
			last = metrics.SecondaryStatus
		}

		if metrics.Terminal() {
			if metrics.Status != types.TrainingJobStatusCompleted {
				return metrics, fmt.Errorf("training job %s %s: %s", name, metrics.Status, metrics.FailureReason)
			}
			return metrics, nil
		}

		select {
		case <-ctx.Done():
			return metrics, ctx.Err()
		case <-ticker.C:
		}
	}
}
