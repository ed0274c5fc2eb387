package dispatch

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ml-pipeline/core/dispatch/mocks"
	"ml-pipeline/core/models"
	"ml-pipeline/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const censusARN = "arn:aws:sagemaker:us-west-2:123456789012:training-job/census-18-01-23-18-54"

type harness struct {
	store    *mocks.MockObjectStore
	training *mocks.MockTrainingService
	reporter *mocks.MockResultReporter
}

func newHarness(t *testing.T) (*harness, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	return &harness{
		store:    mocks.NewMockObjectStore(ctrl),
		training: mocks.NewMockTrainingService(ctrl),
		reporter: mocks.NewMockResultReporter(ctrl),
	}, ctrl
}

func (h *harness) dispatcher(t *testing.T, opts ...Option) *Dispatcher {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithTempDir(t.TempDir()),
		WithLogger(logging.New(io.Discard, "DEBUG")),
	}, opts...)
	return NewDispatcher(testConfig(), h.store, h.training, h.reporter, opts...)
}

func buildEvent() models.JobEvent {
	return models.JobEvent{
		JobID: "job-1",
		InputArtifacts: []models.ArtifactRef{
			{Name: "build_output_v1", Location: models.S3Location{Bucket: "b", Key: "k.zip"}},
		},
	}
}

func TestDispatchStartsTrainingJob(t *testing.T) {
	h, _ := newHarness(t)

	h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).
		DoAndReturn(serve(zipArchive(t, map[string]string{"manifest.json": censusManifest})))
	h.training.EXPECT().CreateTrainingJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *models.TrainingJobRequest) (string, error) {
			assert.Equal(t, "census-18-01-23-18-54", req.Name)
			assert.Equal(t, models.ResourceConfig{InstanceType: "ml.p2.8xlarge", InstanceCount: 1, VolumeSizeInGB: 1}, req.ResourceConfig)
			return censusARN, nil
		})
	h.reporter.EXPECT().ReportSuccess(gomock.Any(), "job-1", "started job: "+censusARN).Return(nil).Times(1)

	result, err := h.dispatcher(t).Dispatch(context.Background(), buildEvent())

	require.NoError(t, err)
	assert.True(t, result.Started())
	assert.Equal(t, censusARN, result.TrainingJobARN)
	assert.Equal(t, "census-18-01-23-18-54", result.TrainingJobName)
}

func TestDispatchWithoutManifestArtifactSkipsStorage(t *testing.T) {
	h, _ := newHarness(t)
	event := models.JobEvent{
		JobID:          "job-1",
		InputArtifacts: []models.ArtifactRef{{Name: "source_output", Location: models.S3Location{Bucket: "b", Key: "src.zip"}}},
	}

	// No Download or CreateTrainingJob expectations: any call fails the test.
	h.reporter.EXPECT().ReportFailure(gomock.Any(), "job-1", FailureMessage).Return(nil).Times(1)

	result, err := h.dispatcher(t).Dispatch(context.Background(), event)

	require.NoError(t, err)
	assert.False(t, result.Started())
	assert.True(t, errors.Is(result.Err, ErrManifestNotFound))
	assert.Equal(t, StageLocating, result.Err.Stage())
}

func TestDispatchReportsEachFailureOnce(t *testing.T) {
	tests := []struct {
		name   string
		event  models.JobEvent
		expect func(t *testing.T, h *harness)
		kind   Kind
	}{
		{
			name: "ambiguous artifacts",
			event: models.JobEvent{JobID: "job-1", InputArtifacts: []models.ArtifactRef{
				{Name: "build_output_a"}, {Name: "build_output_b"},
			}},
			expect: func(t *testing.T, h *harness) {},
			kind:   AmbiguousManifest,
		},
		{
			name:  "download not found",
			event: buildEvent(),
			expect: func(t *testing.T, h *harness) {
				h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).Return(errors.New("NoSuchKey"))
			},
			kind: DownloadError,
		},
		{
			name:  "malformed archive",
			event: buildEvent(),
			expect: func(t *testing.T, h *harness) {
				h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).DoAndReturn(serve([]byte("PK\x03\x04garbage")))
			},
			kind: ExtractionError,
		},
		{
			name:  "malformed manifest",
			event: buildEvent(),
			expect: func(t *testing.T, h *harness) {
				h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).
					DoAndReturn(serve(zipArchive(t, map[string]string{"manifest.json": "{not json"})))
			},
			kind: ManifestParseError,
		},
		{
			name:  "submission rejected",
			event: buildEvent(),
			expect: func(t *testing.T, h *harness) {
				h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).
					DoAndReturn(serve(zipArchive(t, map[string]string{"manifest.json": censusManifest})))
				h.training.EXPECT().CreateTrainingJob(gomock.Any(), gomock.Any()).Return("", errors.New("ResourceLimitExceeded")).Times(1)
			},
			kind: SubmissionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHarness(t)
			tt.expect(t, h)
			h.reporter.EXPECT().ReportFailure(gomock.Any(), "job-1", FailureMessage).Return(nil).Times(1)

			result, err := h.dispatcher(t).Dispatch(context.Background(), tt.event)

			require.NoError(t, err)
			require.NotNil(t, result.Err)
			assert.Equal(t, tt.kind, result.Err.Kind)
			assert.Empty(t, result.TrainingJobARN)
		})
	}
}

func TestDispatchFallsBackToFailureWhenSuccessReportFails(t *testing.T) {
	h, _ := newHarness(t)

	h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).
		DoAndReturn(serve(zipArchive(t, map[string]string{"manifest.json": censusManifest})))
	h.training.EXPECT().CreateTrainingJob(gomock.Any(), gomock.Any()).Return(censusARN, nil)
	gomock.InOrder(
		h.reporter.EXPECT().ReportSuccess(gomock.Any(), "job-1", gomock.Any()).Return(errors.New("InvalidJobStateException")),
		h.reporter.EXPECT().ReportFailure(gomock.Any(), "job-1", FailureMessage).Return(nil),
	)

	result, err := h.dispatcher(t).Dispatch(context.Background(), buildEvent())

	require.NoError(t, err)
	assert.True(t, result.Started())
}

func TestDispatchReturnsReportingError(t *testing.T) {
	h, _ := newHarness(t)

	h.reporter.EXPECT().ReportFailure(gomock.Any(), "job-1", FailureMessage).Return(errors.New("throttled")).Times(1)

	_, err := h.dispatcher(t).Dispatch(context.Background(), models.JobEvent{JobID: "job-1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReporting))
	assert.ErrorContains(t, err, "throttled")
}

func TestDispatchRecordsOutcome(t *testing.T) {
	h, ctrl := newHarness(t)
	recorder := mocks.NewMockRecorder(ctrl)

	h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).Return(errors.New("AccessDenied"))
	h.reporter.EXPECT().ReportFailure(gomock.Any(), "job-1", FailureMessage).Return(nil)
	recorder.EXPECT().RecordDispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.DispatchRecord) error {
			assert.Equal(t, "job-1", rec.PipelineJobID)
			assert.Equal(t, models.OutcomeFailed, rec.Outcome)
			assert.Equal(t, string(DownloadError), rec.ErrorKind)
			assert.Contains(t, rec.ErrorDetail, "AccessDenied")
			assert.Equal(t, fixedNow, rec.CreatedAt)
			return errors.New("connection refused")
		})

	result, err := h.dispatcher(t, WithRecorder(recorder)).Dispatch(context.Background(), buildEvent())

	require.NoError(t, err, "ledger failures must not change the outcome")
	assert.Equal(t, DownloadError, result.Err.Kind)
}

func TestDispatchTagsImageAndEstimatesCost(t *testing.T) {
	h, ctrl := newHarness(t)
	source := mocks.NewMockSourceRepository(ctrl)
	estimator := mocks.NewMockCostEstimator(ctrl)

	h.store.EXPECT().Download(gomock.Any(), "b", "k.zip", gomock.Any()).
		DoAndReturn(serve(zipArchive(t, map[string]string{"manifest.json": censusManifest})))
	source.EXPECT().BranchHead(gomock.Any(), "repo", "master").Return("4c2a9f1", nil)
	estimator.EXPECT().Estimate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no price"))
	h.training.EXPECT().CreateTrainingJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *models.TrainingJobRequest) (string, error) {
			assert.Equal(t, "123456789012.dkr.ecr.us-west-2.amazonaws.com/tf-dock:4c2a9f1", req.TrainingImage)
			return censusARN, nil
		})
	h.reporter.EXPECT().ReportSuccess(gomock.Any(), "job-1", gomock.Any()).Return(nil)

	d := h.dispatcher(t, WithSourceRepository(source), WithCostEstimator(estimator))
	d.cfg.SourceRepository = "repo"
	result, err := d.Dispatch(context.Background(), buildEvent())

	require.NoError(t, err)
	assert.True(t, result.Started())
}
