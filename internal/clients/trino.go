//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

// Package clients wraps the external services of the lakehouse stack:
// Trino for queries, Postgres for the metastore, Redis for caching, and
// MinIO for object storage. A Manager hands out lazily built clients.
package clients

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/trinodb/trino-go-client/trino"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// TrinoClient executes SQL against the Trino coordinator. All statements
// travel as plain strings; the demo pipeline never binds parameters.
type TrinoClient struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTrinoClient builds a client from the configured coordinator address.
// The underlying connection is dialed on first use, not here.
func NewTrinoClient(cfg *config.Config) (*TrinoClient, error) {
	dsnCfg := trino.Config{
		ServerURI: cfg.TrinoServerURI(),
		Source:    cfg.AppName,
		Catalog:   cfg.TrinoCatalog,
		Schema:    cfg.TrinoSchema,
	}
	dsn, err := dsnCfg.FormatDSN()
	if err != nil {
		return nil, fmt.Errorf("failed to build trino DSN: %w", err)
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open trino connection: %w", err)
	}

	log := logging.Component("trino")
	log.Debug().
		Str("host", cfg.TrinoHost).
		Int("port", cfg.TrinoPort).
		Str("catalog", cfg.TrinoCatalog).
		Str("schema", cfg.TrinoSchema).
		Msg("Trino client initialized")

	return &TrinoClient{db: db, log: log}, nil
}

// Execute runs a statement and discards any result set.
func (c *TrinoClient) Execute(ctx context.Context, query string) error {
	c.log.Debug().Str("query", query).Msg("Executing statement")
	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("trino statement failed: %w", err)
	}
	return nil
}

// Query runs a query and returns all rows as generic values.
func (c *TrinoClient) Query(ctx context.Context, query string) ([][]any, error) {
	_, rows, err := c.QueryWithColumns(ctx, query)
	return rows, err
}

// QueryWithColumns runs a query and returns column names alongside rows.
func (c *TrinoClient) QueryWithColumns(ctx context.Context, query string) ([]string, [][]any, error) {
	c.log.Debug().Str("query", query).Msg("Executing query")

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("trino query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration failed: %w", err)
	}

	c.log.Debug().Int("rows", len(out)).Msg("Query returned")
	return cols, out, nil
}

// QueryRow runs a query expected to return a single row.
func (c *TrinoClient) QueryRow(ctx context.Context, query string) ([]any, error) {
	rows, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

// ShowTables lists the tables in the session schema.
func (c *TrinoClient) ShowTables(ctx context.Context) ([]string, error) {
	rows, err := c.Query(ctx, "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			if name, ok := row[0].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// DescribeTable returns the column layout of a table as name/value maps.
func (c *TrinoClient) DescribeTable(ctx context.Context, table string) ([]map[string]any, error) {
	cols, rows, err := c.QueryWithColumns(ctx, "DESCRIBE "+table)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(cols))
		for i, col := range cols {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// Ping verifies the coordinator answers a trivial query.
func (c *TrinoClient) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, "SELECT 1")
	return err
}

// Close releases the connection pool.
func (c *TrinoClient) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close trino connection: %w", err)
	}
	c.log.Info().Msg("Trino connection closed")
	return nil
}
