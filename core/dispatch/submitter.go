package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ml-pipeline/config"
	"ml-pipeline/core/models"

	"github.com/google/uuid"
)

// JobNameTimeFormat renders the uniqueness suffix as yy-mm-dd-HH-MM.
// Two submissions of one manifest in the same minute get the same name.
const JobNameTimeFormat = "06-01-02-15-04"

// Tag keys added to every training job
const (
	TagPipelineJobID = "job_id"
	TagCommitID      = "commitID"
)

// Submitter turns manifests into training jobs
type Submitter struct {
	cfg      *config.Config
	training TrainingService
	source   SourceRepository
}

// NewSubmitter creates a new submitter. source may be nil when
// images are not tagged by commit.
func NewSubmitter(cfg *config.Config, training TrainingService, source SourceRepository) *Submitter {
	return &Submitter{
		cfg:      cfg,
		training: training,
		source:   source,
	}
}

// JobName appends the suffix for mode to base.
func JobName(base string, now time.Time, mode string) string {
	name := base + "-" + now.Format(JobNameTimeFormat)
	if mode == config.SuffixRandom {
		name += "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return name
}

// Build merges the manifest with configured defaults into a request.
func (s *Submitter) Build(ctx context.Context, m *models.Manifest, pipelineJobID string, now time.Time) (*models.TrainingJobRequest, error) {
	name := JobName(m.TrainingJobName, now, s.cfg.JobNameSuffix)
	if len(name) > MaxJobNameLength {
		return nil, errorf(ManifestParseError, "training job name %q exceeds %d characters", name, MaxJobNameLength)
	}

	image := m.AlgorithmSpec.TrainingImage
	if image == "" {
		image = s.cfg.TrainingImage
	}

	tags := make([]models.Tag, 0, len(m.Tags)+2)
	tags = append(tags, m.Tags...)
	tags = append(tags, models.Tag{Key: TagPipelineJobID, Value: pipelineJobID})

	if s.cfg.SourceRepository != "" && s.source != nil {
		commitID, err := s.source.BranchHead(ctx, s.cfg.SourceRepository, s.cfg.SourceBranch)
		if err != nil {
			return nil, errorf(SubmissionError, "failed to resolve head of %s/%s: %w", s.cfg.SourceRepository, s.cfg.SourceBranch, err)
		}
		image = withImageTag(image, commitID)
		tags = append(tags, models.Tag{Key: TagCommitID, Value: commitID})
	}

	inputMode := m.AlgorithmSpec.TrainingInputMode
	if inputMode == "" {
		inputMode = models.InputModeFile
	}

	roleARN := m.RoleARN
	if roleARN == "" {
		roleARN = s.cfg.RoleARN
	}

	hyper := make(map[string]string, len(m.HyperParameters))
	for k, v := range m.HyperParameters {
		hyper[k] = v
	}

	return &models.TrainingJobRequest{
		Name:              name,
		HyperParameters:   hyper,
		TrainingImage:     image,
		InputMode:         inputMode,
		RoleARN:           roleARN,
		InputDataURI:      s.cfg.InputBucketURI,
		OutputPath:        s.cfg.OutputBucketURI,
		KMSKeyID:          s.cfg.KMSKeyID(),
		ResourceConfig:    m.ResourceConfig,
		StoppingCondition: m.StoppingCondition,
		Tags:              tags,
	}, nil
}

// Submit makes exactly one CreateTrainingJob attempt.
func (s *Submitter) Submit(ctx context.Context, req *models.TrainingJobRequest) (string, error) {
	arn, err := s.training.CreateTrainingJob(ctx, req)
	if err != nil {
		return "", errorf(SubmissionError, "failed to create training job %s: %w", req.Name, err)
	}
	if arn == "" {
		return "", errorf(SubmissionError, "training service returned no ARN for %s", req.Name)
	}
	return arn, nil
}

// withImageTag replaces any existing tag on image with tag.
func withImageTag(image, tag string) string {
	slash := strings.LastIndex(image, "/")
	if colon := strings.LastIndex(image, ":"); colon > slash {
		image = image[:colon]
	}
	return fmt.Sprintf("%s:%s", image, tag)
}
