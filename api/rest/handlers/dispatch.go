package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ml-pipeline/core/dispatch"
	"ml-pipeline/core/models"
	"ml-pipeline/core/repository"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
)

// Dispatcher runs one pipeline job
type Dispatcher interface {
	Dispatch(ctx context.Context, event models.JobEvent) (dispatch.JobResult, error)
}

// Ledger reads past dispatches
type Ledger interface {
	GetDispatch(ctx context.Context, pipelineJobID string) (*models.DispatchRecord, error)
	ListDispatches(ctx context.Context, limit int) ([]models.DispatchRecord, error)
}

// DispatchHandler handles dispatch-related HTTP requests
type DispatchHandler struct {
	dispatcher Dispatcher
	ledger     Ledger
}

// NewDispatchHandler creates a new dispatch handler. ledger may be nil.
func NewDispatchHandler(dispatcher Dispatcher, ledger Ledger) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		ledger:     ledger,
	}
}

// DispatchResponse is returned by POST /v1/dispatch
type DispatchResponse struct {
	JobID           string `json:"job_id"`
	Started         bool   `json:"started"`
	TrainingJobName string `json:"training_job_name,omitempty"`
	TrainingJobARN  string `json:"training_job_arn,omitempty"`
	ErrorKind       string `json:"error_kind,omitempty"`
	Stage           string `json:"stage,omitempty"`
}

// Dispatch handles POST /v1/dispatch. The body is a CodePipeline job event.
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var event events.CodePipelineJobEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if event.CodePipelineJob.ID == "" {
		http.Error(w, "Missing CodePipeline.job.id", http.StatusBadRequest)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), models.NewJobEvent(event))
	if err != nil {
		http.Error(w, "Failed to report job result: "+err.Error(), http.StatusBadGateway)
		return
	}

	resp := DispatchResponse{
		JobID:           event.CodePipelineJob.ID,
		Started:         result.Started(),
		TrainingJobName: result.TrainingJobName,
		TrainingJobARN:  result.TrainingJobARN,
	}
	if result.Err != nil {
		resp.ErrorKind = string(result.Err.Kind)
		resp.Stage = string(result.Err.Stage())
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetDispatch handles GET /v1/dispatches/{id}
func (h *DispatchHandler) GetDispatch(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		http.Error(w, "Dispatch ledger not configured", http.StatusNotImplemented)
		return
	}

	rec, err := h.ledger.GetDispatch(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, repository.ErrDispatchNotFound) {
		http.Error(w, "Dispatch not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load dispatch: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListDispatches handles GET /v1/dispatches
func (h *DispatchHandler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		http.Error(w, "Dispatch ledger not configured", http.StatusNotImplemented)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.ledger.ListDispatches(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to list dispatches: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dispatches": records,
		"count":      len(records),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
