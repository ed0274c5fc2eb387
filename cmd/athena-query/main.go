package main

import (
	"context"
	"flag"
	"os"

	"ml-pipeline/config"
	"ml-pipeline/core/query"
	"ml-pipeline/logging"
	"ml-pipeline/providers/aws"
	"ml-pipeline/storage"
)

func main() {
	sql := flag.String("query", `SELECT * FROM "census"."adult_data_manual" limit 11`, "SQL to run")
	database := flag.String("database", "census", "Athena database")
	bucket := flag.String("output-bucket", "", "bucket Athena writes results to")
	poll := flag.Duration("poll", query.DefaultPollInterval, "state poll interval")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := logging.WithComponent("athena-query")

	ctx := context.Background()
	client, err := aws.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	runner := query.NewRunner(client.Athena(), storage.NewS3Store(client.S3()), query.WithPollInterval(*poll))
	out, err := runner.Run(ctx, *sql, *database, *bucket)
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}
