package main

import (
	"context"
	"flag"
	"os"
	"time"

	"ml-pipeline/config"
	"ml-pipeline/core/deploy"
	"ml-pipeline/core/monitoring"
	"ml-pipeline/logging"
	"ml-pipeline/providers/aws"
)

func main() {
	var req deploy.Request
	flag.StringVar(&req.TrainingJobName, "training-job", "", "completed training job to deploy")
	flag.StringVar(&req.Project, "project", "census", "project name")
	flag.StringVar(&req.Environment, "environment", "production", "deployment environment")
	flag.StringVar(&req.Version, "version", "1", "model version")
	flag.StringVar(&req.InstanceType, "instance-type", deploy.DefaultInstanceType, "endpoint instance type")
	wait := flag.Bool("wait", false, "wait for the training job to finish before deploying")
	poll := flag.Duration("poll", 30*time.Second, "training job poll interval when waiting")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := logging.WithComponent("deploy-model")

	ctx := context.Background()
	client, err := aws.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	if *wait {
		if _, err := monitoring.NewJobMonitor(client.SageMaker(), *poll).Wait(ctx, req.TrainingJobName); err != nil {
			logger.Error("training job did not complete", "error", err)
			os.Exit(1)
		}
	}

	res, err := deploy.NewDeployer(client.SageMaker()).Deploy(ctx, req)
	if err != nil {
		logger.Error("deployment failed", "error", err)
		os.Exit(1)
	}
	logger.Info("deployment started",
		"model_arn", res.ModelARN,
		"endpoint_config_arn", res.EndpointConfigARN,
		"endpoint_arn", res.EndpointARN,
	)
}
