package handlers

import (
	"context"
	"net/http"

	"ml-pipeline/core/monitoring"

	"github.com/gorilla/mux"
)

// JobMonitor describes training jobs
type JobMonitor interface {
	GetJobMetrics(ctx context.Context, name string) (*monitoring.JobMetrics, error)
}

// TrainingJobHandler reports on training jobs started by the dispatcher
type TrainingJobHandler struct {
	monitor JobMonitor
}

// NewTrainingJobHandler creates a new training job handler
func NewTrainingJobHandler(monitor JobMonitor) *TrainingJobHandler {
	return &TrainingJobHandler{monitor: monitor}
}

// GetTrainingJob handles GET /v1/training-jobs/{name}
func (h *TrainingJobHandler) GetTrainingJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m, err := h.monitor.GetJobMetrics(r.Context(), name)
	if err != nil {
		http.Error(w, "Failed to describe training job: "+err.Error(), http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"training_job_name": m.TrainingJobName,
		"status":            m.Status,
		"secondary_status":  m.SecondaryStatus,
		"terminal":          m.Terminal(),
		"elapsed_seconds":   int64(m.ElapsedTime.Seconds()),
		"billable_seconds":  m.BillableSeconds,
	}
	if m.FailureReason != "" {
		response["failure_reason"] = m.FailureReason
	}
	if m.ModelArtifacts != "" {
		response["model_artifacts"] = m.ModelArtifacts
	}

	writeJSON(w, http.StatusOK, response)
}
