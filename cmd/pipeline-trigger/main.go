package main

import (
	"context"
	"os"

	"ml-pipeline/config"
	"ml-pipeline/logging"
	"ml-pipeline/providers/aws"

	"github.com/aws/aws-lambda-go/lambda"
)

// Starter starts a pipeline execution
type Starter interface {
	StartExecution(ctx context.Context, name string) (string, error)
}

func handler(starter Starter, pipelineName string) func(context.Context) error {
	logger := logging.WithComponent("pipeline-trigger")
	return func(ctx context.Context) error {
		id, err := starter.StartExecution(ctx, pipelineName)
		if err != nil {
			logger.Error("failed to start pipeline", "pipeline", pipelineName, "error", err)
			return err
		}
		logger.Info("pipeline started", "pipeline", pipelineName, "execution_id", id)
		return nil
	}
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	client, err := aws.NewClient(context.Background(), cfg.AWSRegion)
	if err != nil {
		logging.Get().Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	lambda.Start(handler(client.Pipeline(), cfg.PipelineName))
}
