package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// PostgresClient wraps a pgx connection pool to the database backing the
// Hive metastore. It serves run metadata and logging, not the demo data.
type PostgresClient struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresClient connects to the metastore database and verifies the
// connection with a ping.
func NewPostgresClient(ctx context.Context, cfg *config.Config) (*PostgresClient, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// Metadata traffic is light; keep the pool small.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	log := logging.Component("postgres")
	log.Debug().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("Connecting to metastore database")

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("Connected to metastore database")

	return &PostgresClient{pool: pool, log: log}, nil
}

// Exec runs a statement with optional bound parameters.
func (c *PostgresClient) Exec(ctx context.Context, sql string, args ...any) error {
	if _, err := c.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("postgres statement failed: %w", err)
	}
	return nil
}

// Query runs a query and returns all rows as generic values.
func (c *PostgresClient) Query(ctx context.Context, sql string, args ...any) ([][]any, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres query failed: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	c.log.Debug().Int("rows", len(out)).Msg("Query returned")
	return out, nil
}

// Ping verifies the database answers a trivial query.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.Exec(ctx, "SELECT 1")
}

// Pool exposes the underlying pool for packages that manage their own SQL.
func (c *PostgresClient) Pool() *pgxpool.Pool {
	return c.pool
}

// Close releases the connection pool.
func (c *PostgresClient) Close() {
	c.pool.Close()
	c.log.Info().Msg("Metastore connection closed")
}
