// Package query runs Athena queries and reads back their CSV results.
package query

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"ml-pipeline/logging"
	"ml-pipeline/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// DefaultPollInterval is how often query state is checked
const DefaultPollInterval = 2 * time.Second

// AthenaAPI is the subset of the Athena client we call
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
}

// Runner executes a query and downloads the result object
type Runner struct {
	api          AthenaAPI
	store        storage.Store
	pollInterval time.Duration
}

// Option configures a Runner
type Option func(*Runner)

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) { r.pollInterval = d }
}

// NewRunner creates a new query runner
func NewRunner(api AthenaAPI, store storage.Store, opts ...Option) *Runner {
	r := &Runner{api: api, store: store, pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts sql against database, waits for it to finish and returns the
// result file written to outputBucket.
func (r *Runner) Run(ctx context.Context, sql, database, outputBucket string) ([]byte, error) {
	if sql == "" {
		return nil, fmt.Errorf("query string is required")
	}
	if outputBucket == "" {
		return nil, fmt.Errorf("output bucket is required")
	}

	start, err := r.api.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString:           aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{Database: aws.String(database)},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String("s3://" + outputBucket + "/"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("athena StartQueryExecution: %w", err)
	}
	queryID := aws.ToString(start.QueryExecutionId)
	logger := logging.WithComponent("query").With("query_id", queryID)
	logger.Info("query started", "database", database)

	location, err := r.wait(ctx, queryID)
	if err != nil {
		return nil, err
	}

	key := location[strings.LastIndex(location, "/")+1:]
	var buf bytes.Buffer
	if err := r.store.Download(ctx, outputBucket, key, &buf); err != nil {
		return nil, fmt.Errorf("fetch results of query %s: %w", queryID, err)
	}
	logger.Info("query results fetched", "key", key, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// wait polls until the query succeeds and returns its output location.
func (r *Runner) wait(ctx context.Context, queryID string) (string, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		out, err := r.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(queryID),
		})
		if err != nil {
			return "", fmt.Errorf("athena GetQueryExecution %s: %w", queryID, err)
		}

		exec := out.QueryExecution
		if exec != nil && exec.Status != nil {
			switch exec.Status.State {
			case types.QueryExecutionStateSucceeded:
				if exec.ResultConfiguration == nil || aws.ToString(exec.ResultConfiguration.OutputLocation) == "" {
					return "", fmt.Errorf("query %s succeeded without an output location", queryID)
				}
				return aws.ToString(exec.ResultConfiguration.OutputLocation), nil
			case types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
				return "", fmt.Errorf("query %s %s: %s",
					queryID, exec.Status.State, aws.ToString(exec.Status.StateChangeReason))
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
