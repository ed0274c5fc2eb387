package dispatch

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"io"

	"ml-pipeline/core/models"
)

// ObjectStore downloads stored artifacts
type ObjectStore interface {
	Download(ctx context.Context, bucket, key string, w io.Writer) error
}

// TrainingService starts training jobs and returns the job ARN
type TrainingService interface {
	CreateTrainingJob(ctx context.Context, req *models.TrainingJobRequest) (string, error)
}

// SourceRepository resolves the head commit of a branch
type SourceRepository interface {
	BranchHead(ctx context.Context, repository, branch string) (string, error)
}

// ResultReporter tells the orchestrator how a job ended
type ResultReporter interface {
	ReportSuccess(ctx context.Context, jobID, message string) error
	ReportFailure(ctx context.Context, jobID, message string) error
}

// Recorder persists an audit row per invocation
type Recorder interface {
	RecordDispatch(ctx context.Context, rec *models.DispatchRecord) error
}

// CostEstimator prices a training request before it is submitted
type CostEstimator interface {
	Estimate(ctx context.Context, resources models.ResourceConfig, stop models.StoppingCondition) (*models.CostEstimate, error)
}
