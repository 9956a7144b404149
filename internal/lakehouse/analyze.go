//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

package lakehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/lakeshed/lakeshed/internal/logging"
)

// TableStats summarizes the whole table.
type TableStats struct {
	TotalRecords    int64     `json:"total_records"`
	UniqueCustomers int64     `json:"unique_customers"`
	UniqueProducts  int64     `json:"unique_products"`
	EarliestOrder   time.Time `json:"earliest_order"`
	LatestOrder     time.Time `json:"latest_order"`
	TotalRevenue    float64   `json:"total_revenue"`
	AvgOrderValue   float64   `json:"avg_order_value"`
}

// CategorySummary is one row of the per-category breakdown.
type CategorySummary struct {
	Category      string  `json:"category"`
	OrderCount    int64   `json:"order_count"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
	TotalQuantity int64   `json:"total_quantity"`
}

// RegionSummary is one row of the per-region breakdown.
type RegionSummary struct {
	Region          string  `json:"region"`
	OrderCount      int64   `json:"order_count"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	UniqueCustomers int64   `json:"unique_customers"`
}

// MonthlySummary is one row of the month-over-month trend.
type MonthlySummary struct {
	Month          string  `json:"month"`
	OrderCount     int64   `json:"order_count"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	AvgOrderValue  float64 `json:"avg_order_value"`
}

// ProductSummary is one row of the top-product ranking.
type ProductSummary struct {
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	OrderCount    int64   `json:"order_count"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgPrice      float64 `json:"avg_price"`
}

// CustomerSummary is one row of the top-customer ranking.
type CustomerSummary struct {
	CustomerID    string  `json:"customer_id"`
	OrderCount    int64   `json:"order_count"`
	TotalSpent    float64 `json:"total_spent"`
	AvgOrderValue float64 `json:"avg_order_value"`
	TotalItems    int64   `json:"total_items"`
}

// Report bundles every analysis section for one table.
type Report struct {
	Table        string            `json:"table"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Stats        TableStats        `json:"stats"`
	Categories   []CategorySummary `json:"categories"`
	Regions      []RegionSummary   `json:"regions"`
	Monthly      []MonthlySummary  `json:"monthly"`
	TopProducts  []ProductSummary  `json:"top_products"`
	TopCustomers []CustomerSummary `json:"top_customers"`
}

const statsSQLTemplate = `SELECT
    COUNT(*) as total_records,
    COUNT(DISTINCT customer_id) as unique_customers,
    COUNT(DISTINCT product_name) as unique_products,
    MIN(order_date) as earliest_order,
    MAX(order_date) as latest_order,
    SUM(total_amount) as total_revenue,
    AVG(total_amount) as avg_order_value
FROM %s`

const categorySQLTemplate = `SELECT
    category,
    COUNT(*) as order_count,
    SUM(total_amount) as total_revenue,
    AVG(total_amount) as avg_order_value,
    SUM(quantity) as total_quantity
FROM %s
GROUP BY category
ORDER BY total_revenue DESC`

const regionSQLTemplate = `SELECT
    region,
    COUNT(*) as order_count,
    SUM(total_amount) as total_revenue,
    AVG(total_amount) as avg_order_value,
    COUNT(DISTINCT customer_id) as unique_customers
FROM %s
GROUP BY region
ORDER BY total_revenue DESC`

// Doubled percent signs survive the Sprintf that injects the table
// name, leaving %Y-%m for Trino's date_format.
const monthlySQLTemplate = `SELECT
    DATE_FORMAT(order_date, '%%Y-%%m') as month,
    COUNT(*) as order_count,
    SUM(total_amount) as monthly_revenue,
    AVG(total_amount) as avg_order_value
FROM %s
GROUP BY DATE_FORMAT(order_date, '%%Y-%%m')
ORDER BY month`

const topProductsSQLTemplate = `SELECT
    product_name,
    category,
    COUNT(*) as order_count,
    SUM(quantity) as total_quantity,
    SUM(total_amount) as total_revenue,
    AVG(unit_price) as avg_price
FROM %s
GROUP BY product_name, category
ORDER BY total_revenue DESC
LIMIT 10`

const topCustomersSQLTemplate = `SELECT
    customer_id,
    COUNT(*) as order_count,
    SUM(total_amount) as total_spent,
    AVG(total_amount) as avg_order_value,
    SUM(quantity) as total_items
FROM %s
GROUP BY customer_id
ORDER BY total_spent DESC
LIMIT 10`

// RunAnalysis executes every analysis query against the table and
// returns the assembled report.
func RunAnalysis(ctx context.Context, r Runner, t Table) (*Report, error) {
	rep := &Report{Table: t.FQN(), GeneratedAt: time.Now()}

	var err error
	if rep.Stats, err = tableStats(ctx, r, t); err != nil {
		return nil, err
	}
	if rep.Categories, err = categoryBreakdown(ctx, r, t); err != nil {
		return nil, err
	}
	if rep.Regions, err = regionBreakdown(ctx, r, t); err != nil {
		return nil, err
	}
	if rep.Monthly, err = monthlyTrend(ctx, r, t); err != nil {
		return nil, err
	}
	if rep.TopProducts, err = topProducts(ctx, r, t); err != nil {
		return nil, err
	}
	if rep.TopCustomers, err = topCustomers(ctx, r, t); err != nil {
		return nil, err
	}

	logging.Info().
		Str("table", t.FQN()).
		Int64("records", rep.Stats.TotalRecords).
		Int("categories", len(rep.Categories)).
		Int("regions", len(rep.Regions)).
		Int("months", len(rep.Monthly)).
		Msg("Analysis complete")
	return rep, nil
}

func tableStats(ctx context.Context, r Runner, t Table) (TableStats, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(statsSQLTemplate, t.FQN()))
	if err != nil {
		return TableStats{}, fmt.Errorf("table statistics failed: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) < 7 {
		return TableStats{}, fmt.Errorf("table statistics returned no rows")
	}
	row := rows[0]
	return TableStats{
		TotalRecords:    toInt64(row[0]),
		UniqueCustomers: toInt64(row[1]),
		UniqueProducts:  toInt64(row[2]),
		EarliestOrder:   toTime(row[3]),
		LatestOrder:     toTime(row[4]),
		TotalRevenue:    toFloat64(row[5]),
		AvgOrderValue:   toFloat64(row[6]),
	}, nil
}

func categoryBreakdown(ctx context.Context, r Runner, t Table) ([]CategorySummary, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(categorySQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("category breakdown failed: %w", err)
	}
	out := make([]CategorySummary, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		out = append(out, CategorySummary{
			Category:      toString(row[0]),
			OrderCount:    toInt64(row[1]),
			TotalRevenue:  toFloat64(row[2]),
			AvgOrderValue: toFloat64(row[3]),
			TotalQuantity: toInt64(row[4]),
		})
	}
	return out, nil
}

func regionBreakdown(ctx context.Context, r Runner, t Table) ([]RegionSummary, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(regionSQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("regional analysis failed: %w", err)
	}
	out := make([]RegionSummary, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		out = append(out, RegionSummary{
			Region:          toString(row[0]),
			OrderCount:      toInt64(row[1]),
			TotalRevenue:    toFloat64(row[2]),
			AvgOrderValue:   toFloat64(row[3]),
			UniqueCustomers: toInt64(row[4]),
		})
	}
	return out, nil
}

func monthlyTrend(ctx context.Context, r Runner, t Table) ([]MonthlySummary, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(monthlySQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("monthly trend failed: %w", err)
	}
	out := make([]MonthlySummary, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		out = append(out, MonthlySummary{
			Month:          toString(row[0]),
			OrderCount:     toInt64(row[1]),
			MonthlyRevenue: toFloat64(row[2]),
			AvgOrderValue:  toFloat64(row[3]),
		})
	}
	return out, nil
}

func topProducts(ctx context.Context, r Runner, t Table) ([]ProductSummary, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(topProductsSQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("top products failed: %w", err)
	}
	out := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		out = append(out, ProductSummary{
			ProductName:   toString(row[0]),
			Category:      toString(row[1]),
			OrderCount:    toInt64(row[2]),
			TotalQuantity: toInt64(row[3]),
			TotalRevenue:  toFloat64(row[4]),
			AvgPrice:      toFloat64(row[5]),
		})
	}
	return out, nil
}

func topCustomers(ctx context.Context, r Runner, t Table) ([]CustomerSummary, error) {
	rows, err := r.Query(ctx, fmt.Sprintf(topCustomersSQLTemplate, t.FQN()))
	if err != nil {
		return nil, fmt.Errorf("top customers failed: %w", err)
	}
	out := make([]CustomerSummary, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		out = append(out, CustomerSummary{
			CustomerID:    toString(row[0]),
			OrderCount:    toInt64(row[1]),
			TotalSpent:    toFloat64(row[2]),
			AvgOrderValue: toFloat64(row[3]),
			TotalItems:    toInt64(row[4]),
		})
	}
	return out, nil
}
