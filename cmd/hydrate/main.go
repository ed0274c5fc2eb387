package main

import (
	"flag"
	"os"

	"ml-pipeline/config"
	"ml-pipeline/infra/template"
	"ml-pipeline/logging"
)

func main() {
	var p template.Params
	flag.StringVar(&p.Project, "project", "cloudMlPipeline", "project name")
	flag.StringVar(&p.AccountID, "account", "", "AWS account id")
	flag.StringVar(&p.Region, "region", "", "AWS region (defaults to AWS_REGION)")
	flag.StringVar(&p.Branch, "branch", "master", "source branch")
	flag.StringVar(&p.FunctionName, "function", "sageDispatch", "dispatcher function name")
	flag.StringVar(&p.CodeBucket, "code-bucket", "", "bucket holding the dispatcher bundle")
	flag.StringVar(&p.CodeKey, "code-key", "dispatcher.zip", "key of the dispatcher bundle")
	flag.StringVar(&p.AppBundle, "app-bundle", "MyApp", "build output artifact name")
	flag.StringVar(&p.TrainingImage, "training-image", "", "training image repository URI")
	flag.StringVar(&p.SageMakerRoleARN, "sagemaker-role", "", "SageMaker execution role ARN")
	format := flag.String("format", "yaml", "output format: yaml or json")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := logging.WithComponent("hydrate")

	if p.Region == "" {
		p.Region = cfg.AWSRegion
	}

	tmpl, err := template.Build(p)
	if err != nil {
		logger.Error("failed to build template", "error", err)
		os.Exit(1)
	}

	var out []byte
	switch *format {
	case "json":
		out, err = tmpl.JSON()
	case "yaml":
		out, err = tmpl.YAML()
	default:
		logger.Error("unknown format", "format", *format)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("failed to render template", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}
