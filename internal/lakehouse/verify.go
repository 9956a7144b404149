package lakehouse

import (
	"context"
	"fmt"

	"github.com/lakeshed/lakeshed/internal/logging"
)

// CategoryRevenue is one row of the revenue-per-category check.
type CategoryRevenue struct {
	Category      string  `json:"category"`
	OrderCount    int64   `json:"order_count"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// Verification holds the post-load checks run against the table.
type Verification struct {
	RowCount   int64             `json:"row_count"`
	Sample     [][]any           `json:"sample"`
	ByCategory []CategoryRevenue `json:"by_category"`
}

const verifyCategorySQLTemplate = `SELECT
    category,
    COUNT(*) as order_count,
    SUM(total_amount) as total_revenue,
    AVG(total_amount) as avg_order_value
FROM %s
GROUP BY category
ORDER BY total_revenue DESC`

// VerifyOrders counts the loaded rows, pulls a small sample, and
// aggregates revenue per category.
func VerifyOrders(ctx context.Context, r Runner, t Table) (*Verification, error) {
	v := &Verification{}

	rows, err := r.Query(ctx, fmt.Sprintf("SELECT COUNT(*) as row_count FROM %s", t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("row count failed: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		v.RowCount = toInt64(rows[0][0])
	}

	sample, err := r.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 5", t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("sample failed: %w", err)
	}
	v.Sample = sample

	agg, err := r.Query(ctx, fmt.Sprintf(verifyCategorySQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("category aggregation failed: %w", err)
	}
	for _, row := range agg {
		if len(row) < 4 {
			continue
		}
		v.ByCategory = append(v.ByCategory, CategoryRevenue{
			Category:      toString(row[0]),
			OrderCount:    toInt64(row[1]),
			TotalRevenue:  toFloat64(row[2]),
			AvgOrderValue: toFloat64(row[3]),
		})
	}

	logging.Info().
		Str("table", t.FQN()).
		Int64("rows", v.RowCount).
		Int("categories", len(v.ByCategory)).
		Msg("Verification complete")
	return v, nil
}
