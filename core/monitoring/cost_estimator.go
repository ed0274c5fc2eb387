package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ml-pipeline/core/models"
)

// PriceSource looks up on-demand prices
type PriceSource interface {
	FetchOnDemandPrice(ctx context.Context, instanceType string) (*models.InstancePrice, error)
}

// CostEstimator computes the most a training job can cost before it hits
// its stopping condition. Prices are cached per instance type.
type CostEstimator struct {
	source   PriceSource
	cacheTTL time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	prices map[string]*models.InstancePrice
}

// NewCostEstimator creates a new cost estimator
func NewCostEstimator(source PriceSource) *CostEstimator {
	return &CostEstimator{
		source:   source,
		cacheTTL: 15 * time.Minute,
		now:      time.Now,
		prices:   make(map[string]*models.InstancePrice),
	}
}

// Estimate prices InstanceCount instances running for MaxRuntimeInSeconds.
func (ce *CostEstimator) Estimate(
	ctx context.Context,
	resources models.ResourceConfig,
	stop models.StoppingCondition,
) (*models.CostEstimate, error) {
	if resources.InstanceType == "" {
		return nil, fmt.Errorf("instance type is required")
	}

	price, err := ce.price(ctx, resources.InstanceType)
	if err != nil {
		return nil, err
	}

	hours := float64(stop.MaxRuntimeInSeconds) / time.Hour.Seconds()
	return &models.CostEstimate{
		Price:         *price,
		InstanceCount: resources.InstanceCount,
		MaxHours:      hours,
		MaxCostUSD:    price.PricePerHour * float64(resources.InstanceCount) * hours,
	}, nil
}

func (ce *CostEstimator) price(ctx context.Context, instanceType string) (*models.InstancePrice, error) {
	ce.mu.RLock()
	cached, ok := ce.prices[instanceType]
	ce.mu.RUnlock()
	if ok && ce.now().Sub(cached.LastUpdated) < ce.cacheTTL {
		return cached, nil
	}

	fresh, err := ce.source.FetchOnDemandPrice(ctx, instanceType)
	if err != nil {
		return nil, err
	}

	ce.mu.Lock()
	ce.prices[instanceType] = fresh
	ce.mu.Unlock()
	return fresh, nil
}
