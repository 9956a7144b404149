//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

// Package metastore records pipeline runs in the Postgres database
// that backs the Hive catalog.
package metastore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshed/lakeshed/internal/logging"
	"github.com/lakeshed/lakeshed/pkg/version"
)

const runsTable = "lakeshed_runs"

// Run kinds.
const (
	KindDemo    = "demo"
	KindAnalyze = "analyze"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DB is an interface that both *pgxpool.Pool and *pgx.Conn satisfy.
// This allows the run log to work with either a connection pool or a
// dedicated single connection.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// Run is one recorded pipeline run.
type Run struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Version    string    `json:"version"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Records    int64     `json:"records"`
	Batches    int64     `json:"batches"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail"`
}

// createRunsTableSQL creates the run log table if it doesn't exist.
const createRunsTableSQL = `
CREATE TABLE IF NOT EXISTS lakeshed_runs (
    id          BIGSERIAL PRIMARY KEY,
    kind        TEXT NOT NULL,
    version     TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL,
    records     BIGINT NOT NULL DEFAULT 0,
    batches     BIGINT NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT ''
)`

// RecordRun appends one run to the log, creating the table on first
// use. An empty Version is stamped with the current build.
func RecordRun(ctx context.Context, db DB, run Run) error {
	if _, err := db.Exec(ctx, createRunsTableSQL); err != nil {
		return fmt.Errorf("failed to create run log table: %w", err)
	}

	if run.Version == "" {
		run.Version = version.Short()
	}
	_, err := db.Exec(ctx, `
        INSERT INTO lakeshed_runs (kind, version, started_at, finished_at, records, batches, status, detail)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, run.Kind, run.Version, run.StartedAt, run.FinishedAt, run.Records, run.Batches, run.Status, run.Detail)
	if err != nil {
		return fmt.Errorf("failed to record %s run: %w", run.Kind, err)
	}

	logging.Debug().
		Str("kind", run.Kind).
		Str("status", run.Status).
		Int64("records", run.Records).
		Msg("Recorded run")

	return nil
}

// LastRuns returns the most recent runs, newest first.
func LastRuns(ctx context.Context, db DB, limit int) ([]Run, error) {
	rows, err := db.Query(ctx, `
        SELECT id, kind, version, started_at, finished_at, records, batches, status, detail
        FROM lakeshed_runs
        ORDER BY finished_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Version, &r.StartedAt, &r.FinishedAt,
			&r.Records, &r.Batches, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunLogExists checks if the run log table exists.
func RunLogExists(ctx context.Context, db DB) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, runsTable).Scan(&exists)
	return exists, err
}

// DropRunLog drops the run log table.
func DropRunLog(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", runsTable))
	return err
}
