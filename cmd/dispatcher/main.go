package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ml-pipeline/api/rest/routes"
	"ml-pipeline/config"
	"ml-pipeline/core/dispatch"
	"ml-pipeline/core/models"
	"ml-pipeline/core/monitoring"
	"ml-pipeline/core/repository"
	"ml-pipeline/logging"
	"ml-pipeline/providers/aws"
	"ml-pipeline/storage"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := logging.WithComponent("main")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	awsClient, err := aws.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	store, err := newArtifactStore(cfg, awsClient)
	if err != nil {
		logger.Error("failed to create artifact store", "error", err)
		os.Exit(1)
	}

	opts := []dispatch.Option{}
	if cfg.SourceRepository != "" {
		opts = append(opts, dispatch.WithSourceRepository(awsClient.SourceRepository()))
	}

	var ledger *repository.DispatchRepository
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.ExecContext(ctx, repository.Schema); err != nil {
			logger.Error("failed to apply ledger schema", "error", err)
			os.Exit(1)
		}
		ledger = repository.NewDispatchRepository(db)
		opts = append(opts, dispatch.WithRecorder(ledger))
		logger.Info("dispatch ledger enabled")
	}

	var estimator *monitoring.CostEstimator
	if cfg.PricingEnabled {
		estimator = monitoring.NewCostEstimator(awsClient.Pricing())
		opts = append(opts, dispatch.WithCostEstimator(estimator))
	}

	dispatcher := dispatch.NewDispatcher(cfg, store, awsClient.TrainingJobs(), awsClient.Pipeline(), opts...)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(lambdaHandler(dispatcher))
		return
	}

	svc := routes.Services{
		Dispatcher: dispatcher,
		Monitor:    monitoring.NewJobMonitor(awsClient.SageMaker(), 0),
	}
	if ledger != nil {
		svc.Ledger = ledger
	}
	if estimator != nil {
		svc.Estimator = estimator
	}
	serve(cfg, svc)
}

// lambdaHandler fails the invocation only when the orchestrator could not be told the outcome.
func lambdaHandler(d *dispatch.Dispatcher) func(context.Context, events.CodePipelineJobEvent) error {
	return func(ctx context.Context, event events.CodePipelineJobEvent) error {
		_, err := d.Dispatch(ctx, models.NewJobEvent(event))
		return err
	}
}

func newArtifactStore(cfg *config.Config, client *aws.Client) (dispatch.ObjectStore, error) {
	switch cfg.ArtifactStore {
	case config.StoreMinio:
		store, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreS3:
		return storage.NewS3Store(client.S3()), nil
	default:
		return nil, fmt.Errorf("unknown artifact store %q", cfg.ArtifactStore)
	}
}

func serve(cfg *config.Config, svc routes.Services) {
	logger := logging.WithComponent("server")

	r := mux.NewRouter()
	routes.SetupRoutes(r, svc)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
