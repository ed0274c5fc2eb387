package models

import "time"

// Training input modes
const (
	InputModeFile     = "File"
	InputModePipe     = "Pipe"
	InputModeFastFile = "FastFile"
)

// TrainingChannelName is the single input channel handed to the container
const TrainingChannelName = "train"

// TrainingJobRequest is a fully resolved CreateTrainingJob call
type TrainingJobRequest struct {
	Name              string
	HyperParameters   map[string]string
	TrainingImage     string
	InputMode         string
	RoleARN           string
	InputDataURI      string
	OutputPath        string
	KMSKeyID          string
	ResourceConfig    ResourceConfig
	StoppingCondition StoppingCondition
	Tags              []Tag
}

// DispatchOutcome is the terminal state of one dispatcher invocation
type DispatchOutcome string

const (
	OutcomeSucceeded DispatchOutcome = "succeeded"
	OutcomeFailed    DispatchOutcome = "failed"
)

// DispatchRecord is an audit row for one invocation
type DispatchRecord struct {
	ID              string          `json:"id"`
	PipelineJobID   string          `json:"pipeline_job_id"`
	TrainingJobName string          `json:"training_job_name,omitempty"`
	TrainingJobARN  string          `json:"training_job_arn,omitempty"`
	Outcome         DispatchOutcome `json:"outcome"`
	ErrorKind       string          `json:"error_kind,omitempty"`
	ErrorDetail     string          `json:"error_detail,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
