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

	"github.com/lakeshed/lakeshed/internal/logging"
)

// Defaults for the demo order table.
const (
	DefaultSchema = "sales"
	DefaultTable  = "ecommerce_orders"
)

// Table identifies one Iceberg table and the bucket backing it.
type Table struct {
	Catalog string
	Schema  string
	Name    string
	Bucket  string
}

// FQN returns the catalog-qualified table name.
func (t Table) FQN() string {
	return fmt.Sprintf("%s.%s.%s", t.Catalog, t.Schema, t.Name)
}

// SchemaFQN returns the catalog-qualified schema name.
func (t Table) SchemaFQN() string {
	return fmt.Sprintf("%s.%s", t.Catalog, t.Schema)
}

// Location returns the object storage path holding the table data.
func (t Table) Location() string {
	return fmt.Sprintf("s3://%s/%s/%s/", t.Bucket, t.Schema, t.Name)
}

// Prefix returns the bucket-relative key prefix of the table data.
func (t Table) Prefix() string {
	return fmt.Sprintf("%s/%s/", t.Schema, t.Name)
}

// DDL template for the order table. Uses %s for the qualified table
// name and the storage location.
const createOrdersTableSQLTemplate = `CREATE TABLE IF NOT EXISTS %s (
    order_id VARCHAR,
    product_name VARCHAR,
    category VARCHAR,
    quantity INTEGER,
    unit_price DECIMAL(10,2),
    total_amount DECIMAL(10,2),
    region VARCHAR,
    order_date DATE,
    customer_id VARCHAR
) WITH (
    format = 'PARQUET',
    location = '%s'
)`

// CreateSchema creates the table's schema if it does not exist.
func CreateSchema(ctx context.Context, r Runner, t Table) error {
	stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", t.SchemaFQN())
	if err := r.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", t.SchemaFQN(), err)
	}
	logging.Info().Str("schema", t.SchemaFQN()).Msg("Schema ready")
	return nil
}

// CreateOrdersTable creates the Iceberg order table if it does not
// exist. Data lands under the table's storage location as Parquet.
func CreateOrdersTable(ctx context.Context, r Runner, t Table) error {
	stmt := fmt.Sprintf(createOrdersTableSQLTemplate, t.FQN(), t.Location())
	if err := r.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.FQN(), err)
	}
	logging.Info().
		Str("table", t.FQN()).
		Str("location", t.Location()).
		Msg("Table ready")
	return nil
}

// DropOrdersTable drops the order table if it exists.
func DropOrdersTable(ctx context.Context, r Runner, t Table) error {
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", t.FQN())
	if err := r.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", t.FQN(), err)
	}
	logging.Info().Str("table", t.FQN()).Msg("Table dropped")
	return nil
}

// TableExists reports whether the order table is present in its schema.
func TableExists(ctx context.Context, r Runner, t Table) (bool, error) {
	rows, err := r.Query(ctx, fmt.Sprintf("SHOW TABLES FROM %s", t.SchemaFQN()))
	if err != nil {
		return false, fmt.Errorf("failed to list tables in %s: %w", t.SchemaFQN(), err)
	}
	for _, row := range rows {
		if len(row) > 0 && toString(row[0]) == t.Name {
			return true, nil
		}
	}
	return false, nil
}
