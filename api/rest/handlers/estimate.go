package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"ml-pipeline/core/models"
)

// Estimator prices a training job's resources
type Estimator interface {
	Estimate(ctx context.Context, resources models.ResourceConfig, stop models.StoppingCondition) (*models.CostEstimate, error)
}

// EstimateHandler answers worst-case cost questions for a manifest
type EstimateHandler struct {
	estimator Estimator
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimator Estimator) *EstimateHandler {
	return &EstimateHandler{estimator: estimator}
}

// EstimateRequest carries the cost-relevant manifest sections
type EstimateRequest struct {
	ResourceConfig    models.ResourceConfig    `json:"resource_config"`
	StoppingCondition models.StoppingCondition `json:"stopping_condition"`
}

// Estimate handles POST /v1/estimates
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ResourceConfig.InstanceType == "" || req.ResourceConfig.InstanceCount <= 0 {
		http.Error(w, "resource_config.instance_type and instance_count are required", http.StatusBadRequest)
		return
	}

	est, err := h.estimator.Estimate(r.Context(), req.ResourceConfig, req.StoppingCondition)
	if err != nil {
		http.Error(w, "Failed to estimate cost: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, est)
}
