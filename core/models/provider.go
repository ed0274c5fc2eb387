package models

import "time"

// Provider represents a cloud provider
type Provider string

const (
	ProviderAWS Provider = "aws"
)

// InstancePrice is the on-demand price of one training instance type
type InstancePrice struct {
	Provider     Provider  `json:"provider"`
	InstanceType string    `json:"instance_type"` // "ml.p2.8xlarge"
	Region       string    `json:"region"`
	PricePerHour float64   `json:"price_per_hour"` // USD
	LastUpdated  time.Time `json:"last_updated"`
}

// CostEstimate bounds what a training job can spend if it runs to its stopping condition
type CostEstimate struct {
	Price         InstancePrice `json:"price"`
	InstanceCount int32         `json:"instance_count"`
	MaxHours      float64       `json:"max_hours"`
	MaxCostUSD    float64       `json:"max_cost_usd"`
}
