package models

// Manifest is the training descriptor bundled with the build output as manifest.json
type Manifest struct {
	TrainingJobName   string            `json:"training_job_name"`
	HyperParameters   map[string]string `json:"hyperparameters"`
	AlgorithmSpec     AlgorithmSpec     `json:"algorithm_spec"`
	RoleARN           string            `json:"role_arn"`
	ResourceConfig    ResourceConfig    `json:"resource_config"`
	StoppingCondition StoppingCondition `json:"stopping_condition"`
	Tags              []Tag             `json:"tags"`
}

// AlgorithmSpec selects the training container
type AlgorithmSpec struct {
	TrainingImage     string `json:"training_image"`
	TrainingInputMode string `json:"training_input_mode"` // File | Pipe | FastFile
}

// ResourceConfig sizes the training cluster
type ResourceConfig struct {
	InstanceType   string `json:"instance_type"` // e.g. "ml.p2.8xlarge"
	InstanceCount  int32  `json:"instance_count"`
	VolumeSizeInGB int32  `json:"volume_size_in_gb"`
}

// StoppingCondition bounds the training run
type StoppingCondition struct {
	MaxRuntimeInSeconds int32 `json:"max_runtime_in_seconds"`
}

// Tag is a key/value resource tag
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
