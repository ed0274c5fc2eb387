package repository

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the Postgres connection pool
type DB struct {
	*sql.DB
}

// NewDB opens a Postgres connection and verifies it
func NewDB(databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: conn}, nil
}

// Wrap adopts an existing pool
func Wrap(conn *sql.DB) *DB {
	return &DB{DB: conn}
}

// Schema is the DDL for the dispatch ledger
const Schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id                 UUID PRIMARY KEY,
	pipeline_job_id    TEXT NOT NULL,
	training_job_name  TEXT NOT NULL DEFAULT '',
	training_job_arn   TEXT NOT NULL DEFAULT '',
	outcome            TEXT NOT NULL,
	error_kind         TEXT NOT NULL DEFAULT '',
	error_detail       TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS dispatches_pipeline_job_id_idx ON dispatches (pipeline_job_id);
`
