package lakehouse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lakeshed/lakeshed/internal/datagen"
)

func TestInsertOrdersBatchCount(t *testing.T) {
	tests := []struct {
		records     int
		batchSize   int
		wantBatches int
	}{
		{0, 100, 0},
		{1, 100, 1},
		{50, 100, 1},
		{100, 100, 1},
		{150, 100, 2},
		{250, 100, 3},
	}

	for _, tt := range tests {
		faker := datagen.NewFakerWithSeed(42)
		orders := datagen.GenerateOrders(faker, tt.records)

		f := &fakeRunner{}
		stats, err := InsertOrders(context.Background(), f, testTable(), orders, tt.batchSize)
		if err != nil {
			t.Fatalf("InsertOrders(%d records) failed: %v", tt.records, err)
		}
		if stats.Batches != tt.wantBatches {
			t.Errorf("InsertOrders(%d records): expected %d batches, got %d",
				tt.records, tt.wantBatches, stats.Batches)
		}
		if len(f.executed) != tt.wantBatches {
			t.Errorf("InsertOrders(%d records): expected %d statements, got %d",
				tt.records, tt.wantBatches, len(f.executed))
		}
		if stats.Rows != tt.records {
			t.Errorf("InsertOrders(%d records): expected %d rows, got %d",
				tt.records, tt.records, stats.Rows)
		}
	}
}

func TestInsertOrdersStatementShape(t *testing.T) {
	faker := datagen.NewFakerWithSeed(7)
	orders := datagen.GenerateOrders(faker, 3)

	f := &fakeRunner{}
	stats, err := InsertOrders(context.Background(), f, testTable(), orders, 2)
	if err != nil {
		t.Fatalf("InsertOrders failed: %v", err)
	}
	if stats.Batches != 2 || len(f.executed) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(f.executed))
	}

	for i, stmt := range f.executed {
		if !strings.HasPrefix(stmt, "INSERT INTO iceberg.sales.ecommerce_orders VALUES (") {
			t.Errorf("Statement %d has unexpected prefix: %q", i, stmt)
		}
		if !strings.Contains(stmt, "DATE '") {
			t.Errorf("Statement %d missing DATE literal: %q", i, stmt)
		}
	}

	// Two tuples in the full batch, one in the remainder.
	if got := strings.Count(f.executed[0], "('ORD-"); got != 2 {
		t.Errorf("Expected 2 tuples in first statement, got %d", got)
	}
	if got := strings.Count(f.executed[1], "('ORD-"); got != 1 {
		t.Errorf("Expected 1 tuple in second statement, got %d", got)
	}
}

func TestInsertOrdersEmptySlice(t *testing.T) {
	f := &fakeRunner{}
	stats, err := InsertOrders(context.Background(), f, testTable(), nil, 100)
	if err != nil {
		t.Fatalf("InsertOrders failed: %v", err)
	}
	if stats.Rows != 0 || stats.Batches != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
	if len(f.executed) != 0 {
		t.Errorf("Expected no statements, got %d", len(f.executed))
	}
}

func TestInsertOrdersInvalidBatchSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		f := &fakeRunner{}
		if _, err := InsertOrders(context.Background(), f, testTable(), nil, size); err == nil {
			t.Errorf("Expected error for batch size %d, got nil", size)
		}
		if len(f.executed) != 0 {
			t.Errorf("Expected no statements for batch size %d", size)
		}
	}
}

func TestInsertOrdersExecuteError(t *testing.T) {
	faker := datagen.NewFakerWithSeed(3)
	orders := datagen.GenerateOrders(faker, 10)

	f := &fakeRunner{execErr: errors.New("table not found")}
	_, err := InsertOrders(context.Background(), f, testTable(), orders, 4)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "batch 1/3") {
		t.Errorf("Expected batch position in error, got %q", err)
	}
	if len(f.executed) != 1 {
		t.Errorf("Expected insert to stop after first failure, got %d statements", len(f.executed))
	}
}

func TestRenderOrderValues(t *testing.T) {
	o := datagen.Order{
		OrderID:     "ORD-000001",
		ProductName: "Laptop",
		Category:    "Electronics",
		Quantity:    3,
		UnitPrice:   459.9,
		TotalAmount: 1379.7,
		Region:      "US",
		OrderDate:   time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		CustomerID:  "CUST-0042",
	}

	want := "('ORD-000001', 'Laptop', 'Electronics', 3, 459.90, 1379.70, 'US', DATE '2026-05-14', 'CUST-0042')"
	if got := renderOrderValues(o); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderOrderValuesEscapesQuotes(t *testing.T) {
	o := datagen.Order{
		OrderID:     "ORD-000002",
		ProductName: "O'Brien's Choice",
		Category:    "Books",
		Quantity:    1,
		UnitPrice:   19.99,
		TotalAmount: 19.99,
		Region:      "EU",
		OrderDate:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		CustomerID:  "CUST-0001",
	}

	got := renderOrderValues(o)
	if !strings.Contains(got, "'O''Brien''s Choice'") {
		t.Errorf("Expected doubled quotes, got %q", got)
	}
}

func TestEscapeSingleQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"O'Brien", "O''Brien"},
		{"a'b'c", "a''b''c"},
		{"''", "''''"},
	}

	for _, tt := range tests {
		if got := escapeSingleQuote(tt.in); got != tt.want {
			t.Errorf("escapeSingleQuote(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func BenchmarkRenderOrderValues(b *testing.B) {
	faker := datagen.NewFakerWithSeed(1)
	orders := datagen.GenerateOrders(faker, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		renderOrderValues(orders[0])
	}
}

func BenchmarkInsertOrders(b *testing.B) {
	faker := datagen.NewFakerWithSeed(1)
	orders := datagen.GenerateOrders(faker, 1000)
	tbl := testTable()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := &fakeRunner{}
		if _, err := InsertOrders(context.Background(), f, tbl, orders, 200); err != nil {
			b.Fatal(err)
		}
	}
}
