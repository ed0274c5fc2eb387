package dispatch

import (
	"context"
	"log/slog"
	"time"

	"ml-pipeline/config"
	"ml-pipeline/core/models"
	"ml-pipeline/logging"
)

// FailureMessage is the only failure text the orchestrator sees.
// The cause is in the logs.
const FailureMessage = "training job dispatch failed"

// JobResult is the outcome of one invocation
type JobResult struct {
	TrainingJobName string
	TrainingJobARN  string
	Err             *Error
}

// Started reports whether a training job was created.
func (r JobResult) Started() bool {
	return r.Err == nil
}

// Dispatcher handles one pipeline job per Dispatch call. It keeps no
// state between calls and is safe for concurrent use.
type Dispatcher struct {
	cfg       *config.Config
	store     ObjectStore
	training  TrainingService
	reporter  ResultReporter
	source    SourceRepository
	recorder  Recorder
	estimator CostEstimator
	tempDir   string
	now       func() time.Time
	logger    *slog.Logger

	fetcher   *Fetcher
	submitter *Submitter
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithSourceRepository enables tagging the training image with the branch head commit.
func WithSourceRepository(src SourceRepository) Option {
	return func(d *Dispatcher) { d.source = src }
}

// WithRecorder writes a ledger row for every invocation.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithCostEstimator logs the worst-case cost before submission.
func WithCostEstimator(e CostEstimator) Option {
	return func(d *Dispatcher) { d.estimator = e }
}

func WithTempDir(dir string) Option {
	return func(d *Dispatcher) { d.tempDir = dir }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(
	cfg *config.Config,
	store ObjectStore,
	training TrainingService,
	reporter ResultReporter,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		store:    store,
		training: training,
		reporter: reporter,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.WithComponent("dispatcher")
	}
	d.fetcher = NewFetcher(d.store, d.tempDir)
	d.submitter = NewSubmitter(d.cfg, d.training, d.source)
	return d
}

// Dispatch starts a training job for event and reports the outcome to the
// orchestrator exactly once. The returned error is non-nil only when the
// report itself could not be delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.JobEvent) (JobResult, error) {
	logger := d.logger.With(slog.String("job_id", event.JobID))
	logger.Info("dispatch received",
		"stage", StageReceived,
		"artifacts", len(event.InputArtifacts),
	)

	result := d.run(ctx, logger, event)
	outcome, reportErr := d.report(ctx, logger, event.JobID, result)
	d.record(ctx, logger, event.JobID, result, outcome, reportErr)

	if reportErr != nil {
		return result, reportErr
	}
	return result, nil
}

func (d *Dispatcher) run(ctx context.Context, logger *slog.Logger, event models.JobEvent) JobResult {
	logger.Debug("locating manifest", "stage", StageLocating, "bundle", d.cfg.AppBundle)
	ref, err := Locate(event.InputArtifacts, d.cfg.AppBundle)
	if err != nil {
		return JobResult{Err: asError(err, ManifestNotFound)}
	}

	logger.Info("fetching manifest",
		"stage", StageFetching,
		"artifact", ref.Name,
		"bucket", ref.Location.Bucket,
		"key", ref.Location.Key,
	)
	raw, err := d.fetcher.Fetch(ctx, ref)
	if err != nil {
		return JobResult{Err: asError(err, DownloadError)}
	}

	logger.Debug("parsing manifest", "stage", StageParsing, "bytes", len(raw))
	manifest, err := ParseManifest(raw)
	if err != nil {
		return JobResult{Err: asError(err, ManifestParseError)}
	}

	req, err := d.submitter.Build(ctx, manifest, event.JobID, d.now())
	if err != nil {
		return JobResult{Err: asError(err, SubmissionError)}
	}
	d.estimateCost(ctx, logger, req)

	logger.Info("submitting training job",
		"stage", StageSubmitting,
		"training_job", req.Name,
		"image", req.TrainingImage,
		"instance_type", req.ResourceConfig.InstanceType,
		"instance_count", req.ResourceConfig.InstanceCount,
	)
	arn, err := d.submitter.Submit(ctx, req)
	if err != nil {
		return JobResult{TrainingJobName: req.Name, Err: asError(err, SubmissionError)}
	}
	return JobResult{TrainingJobName: req.Name, TrainingJobARN: arn}
}

// report sends the outcome. A failed success report degrades to a failure report.
func (d *Dispatcher) report(ctx context.Context, logger *slog.Logger, jobID string, result JobResult) (models.DispatchOutcome, error) {
	if result.Started() {
		err := d.reporter.ReportSuccess(ctx, jobID, "started job: "+result.TrainingJobARN)
		if err == nil {
			logger.Info("dispatch succeeded",
				"stage", StageSucceeded,
				"training_job", result.TrainingJobName,
				"training_job_arn", result.TrainingJobARN,
			)
			return models.OutcomeSucceeded, nil
		}
		logger.Error("failed to report success, reporting failure instead",
			"training_job_arn", result.TrainingJobARN,
			"error", err,
		)
	} else {
		logger.Error("dispatch failed",
			"stage", StageFailed,
			"failed_stage", result.Err.Stage(),
			"kind", result.Err.Kind,
			"error", result.Err.Err,
		)
	}

	if err := d.reporter.ReportFailure(ctx, jobID, FailureMessage); err != nil {
		rerr := newError(ReportingError, err)
		logger.Error("failed to report failure", "kind", rerr.Kind, "error", err)
		return models.OutcomeFailed, rerr
	}
	return models.OutcomeFailed, nil
}

func (d *Dispatcher) record(
	ctx context.Context,
	logger *slog.Logger,
	jobID string,
	result JobResult,
	outcome models.DispatchOutcome,
	reportErr error,
) {
	if d.recorder == nil {
		return
	}

	rec := &models.DispatchRecord{
		PipelineJobID:   jobID,
		TrainingJobName: result.TrainingJobName,
		TrainingJobARN:  result.TrainingJobARN,
		Outcome:         outcome,
		CreatedAt:       d.now(),
	}
	switch {
	case result.Err != nil:
		rec.ErrorKind = string(result.Err.Kind)
		rec.ErrorDetail = result.Err.Error()
	case reportErr != nil:
		rec.ErrorKind = string(KindOf(reportErr))
		rec.ErrorDetail = reportErr.Error()
	}

	if err := d.recorder.RecordDispatch(ctx, rec); err != nil {
		logger.Warn("failed to record dispatch", "error", err)
	}
}

func (d *Dispatcher) estimateCost(ctx context.Context, logger *slog.Logger, req *models.TrainingJobRequest) {
	if d.estimator == nil {
		return
	}
	est, err := d.estimator.Estimate(ctx, req.ResourceConfig, req.StoppingCondition)
	if err != nil {
		logger.Warn("cost estimate unavailable", "instance_type", req.ResourceConfig.InstanceType, "error", err)
		return
	}
	logger.Info("estimated worst-case training cost",
		"training_job", req.Name,
		"price_per_hour_usd", est.Price.PricePerHour,
		"max_hours", est.MaxHours,
		"max_cost_usd", est.MaxCostUSD,
	)
}
