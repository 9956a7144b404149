// Package lakehouse creates, loads, and inspects the Iceberg order
// table through Trino. Every statement travels as a rendered SQL
// string; callers pass a Runner so tests can capture the exact text.
package lakehouse

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/logging"
)

// Runner executes SQL against the query engine. clients.TrinoClient
// satisfies it.
type Runner interface {
	// Execute runs a statement and discards any result set.
	Execute(ctx context.Context, query string) error
	// Query runs a statement and returns all rows as generic values.
	Query(ctx context.Context, query string) ([][]any, error)
}

// DryRunner logs every statement instead of executing it and answers
// queries with no rows. Substituted for the real client when dry run
// mode is on.
type DryRunner struct {
	log zerolog.Logger
}

// NewDryRunner returns a Runner that only logs.
func NewDryRunner() *DryRunner {
	return &DryRunner{log: logging.Component("dryrun")}
}

// Execute logs the statement and reports success.
func (d *DryRunner) Execute(ctx context.Context, query string) error {
	d.log.Info().Str("query", query).Msg("Dry run, statement not executed")
	return nil
}

// Query logs the statement and returns no rows.
func (d *DryRunner) Query(ctx context.Context, query string) ([][]any, error) {
	d.log.Info().Str("query", query).Msg("Dry run, query not executed")
	return nil, nil
}
