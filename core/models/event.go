package models

import "github.com/aws/aws-lambda-go/events"

// JobEvent is one CodePipeline job handed to the dispatcher
type JobEvent struct {
	JobID          string
	InputArtifacts []ArtifactRef
}

// ArtifactRef names an artifact produced by an upstream pipeline stage
type ArtifactRef struct {
	Name     string
	Location S3Location
}

// S3Location points at a stored object
type S3Location struct {
	Bucket string
	Key    string
}

// NewJobEvent converts the payload CodePipeline sends to an Invoke action
// into the dispatcher's event
func NewJobEvent(e events.CodePipelineJobEvent) JobEvent {
	job := e.CodePipelineJob
	artifacts := make([]ArtifactRef, 0, len(job.Data.InputArtifacts))
	for _, a := range job.Data.InputArtifacts {
		artifacts = append(artifacts, ArtifactRef{
			Name: a.Name,
			Location: S3Location{
				Bucket: a.Location.S3Location.BucketName,
				Key:    a.Location.S3Location.ObjectKey,
			},
		})
	}
	return JobEvent{
		JobID:          job.ID,
		InputArtifacts: artifacts,
	}
}
