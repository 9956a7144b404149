package lakehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lakeshed/lakeshed/internal/datagen"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// InsertStats summarizes one load run.
type InsertStats struct {
	Rows    int           `json:"rows"`
	Batches int           `json:"batches"`
	Elapsed time.Duration `json:"elapsed"`
}

// InsertOrders loads orders into the table, batchSize rows per INSERT
// statement. No statement is issued for an empty slice.
func InsertOrders(ctx context.Context, r Runner, t Table, orders []datagen.Order, batchSize int) (*InsertStats, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	start := time.Now()
	totalBatches := (len(orders) + batchSize - 1) / batchSize
	stats := &InsertStats{}

	batch := make([]string, 0, batchSize)
	for _, o := range orders {
		batch = append(batch, renderOrderValues(o))
		if len(batch) >= batchSize {
			if err := flushBatch(ctx, r, t, batch, stats, totalBatches); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := flushBatch(ctx, r, t, batch, stats, totalBatches); err != nil {
			return nil, err
		}
	}

	stats.Elapsed = time.Since(start)
	logging.Info().
		Str("table", t.FQN()).
		Int("rows", stats.Rows).
		Int("batches", stats.Batches).
		Dur("elapsed", stats.Elapsed).
		Msg("Insert complete")
	return stats, nil
}

func flushBatch(ctx context.Context, r Runner, t Table, values []string, stats *InsertStats, totalBatches int) error {
	stats.Batches++
	logging.Debug().
		Int("batch", stats.Batches).
		Int("total", totalBatches).
		Int("rows", len(values)).
		Msg("Inserting batch")

	stmt := fmt.Sprintf("INSERT INTO %s VALUES %s", t.FQN(), strings.Join(values, ", "))
	if err := r.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("batch %d/%d failed: %w", stats.Batches, totalBatches, err)
	}
	stats.Rows += len(values)
	return nil
}

// renderOrderValues renders one order as a SQL VALUES tuple. String
// fields are quote-escaped, money keeps two decimals, and the order
// date becomes a DATE literal.
func renderOrderValues(o datagen.Order) string {
	return fmt.Sprintf("('%s', '%s', '%s', %d, %.2f, %.2f, '%s', DATE '%s', '%s')",
		escapeSingleQuote(o.OrderID),
		escapeSingleQuote(o.ProductName),
		escapeSingleQuote(o.Category),
		o.Quantity,
		o.UnitPrice,
		o.TotalAmount,
		escapeSingleQuote(o.Region),
		o.OrderDate.Format("2006-01-02"),
		escapeSingleQuote(o.CustomerID),
	)
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
