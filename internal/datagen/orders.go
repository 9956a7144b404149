package datagen

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Reference data for the synthetic order stream.
var (
	Products = []string{
		"Laptop", "Smartphone", "Tablet", "Headphones", "Keyboard",
		"Mouse", "Monitor", "Speaker", "Camera", "Watch",
	}
	Categories = []string{
		"Electronics", "Computers", "Accessories", "Audio", "Photography",
	}
	Regions = []string{"US", "EU", "ASIA", "LATAM", "AFRICA"}
)

// Order is one synthetic e-commerce order row.
type Order struct {
	OrderID     string
	ProductName string
	Category    string
	Quantity    int
	UnitPrice   float64
	TotalAmount float64
	Region      string
	OrderDate   time.Time
	CustomerID  string
}

// GenerateOrders produces n orders. Every field is sampled independently;
// TotalAmount is the one derived field (quantity times unit price).
func GenerateOrders(f *Faker, n int) []Order {
	now := time.Now()
	yearAgo := now.AddDate(0, 0, -365)

	orders := make([]Order, 0, n)
	for i := 0; i < n; i++ {
		quantity := f.Int(1, 10)
		unitPrice := Round2(f.Float64(10, 1000))

		orders = append(orders, Order{
			OrderID:     fmt.Sprintf("ORD-%06d", i+1),
			ProductName: Choose(f, Products),
			Category:    Choose(f, Categories),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalAmount: Round2(float64(quantity) * unitPrice),
			Region:      Choose(f, Regions),
			OrderDate:   f.DateRange(yearAgo, now),
			CustomerID:  fmt.Sprintf("CUST-%04d", f.Int(1, 1000)),
		})
	}
	return orders
}

// Validate checks the field formats and ranges, including the derived
// total staying within a cent of quantity times unit price.
func (o Order) Validate() error {
	if !strings.HasPrefix(o.OrderID, "ORD-") || len(o.OrderID) < 10 {
		return fmt.Errorf("malformed order id %q", o.OrderID)
	}
	if o.ProductName == "" {
		return fmt.Errorf("order %s has no product name", o.OrderID)
	}
	if o.Category == "" {
		return fmt.Errorf("order %s has no category", o.OrderID)
	}
	if o.Quantity < 1 || o.Quantity > 10 {
		return fmt.Errorf("order %s quantity %d out of range", o.OrderID, o.Quantity)
	}
	if o.UnitPrice < 10 || o.UnitPrice > 1000 {
		return fmt.Errorf("order %s unit price %.2f out of range", o.OrderID, o.UnitPrice)
	}
	if o.Region == "" {
		return fmt.Errorf("order %s has no region", o.OrderID)
	}
	if o.OrderDate.IsZero() {
		return fmt.Errorf("order %s has no order date", o.OrderID)
	}
	if !strings.HasPrefix(o.CustomerID, "CUST-") || len(o.CustomerID) != 9 {
		return fmt.Errorf("order %s has malformed customer id %q", o.OrderID, o.CustomerID)
	}
	if math.Abs(o.TotalAmount-Round2(float64(o.Quantity)*o.UnitPrice)) > 0.01 {
		return fmt.Errorf("order %s total %.2f does not match quantity*unit_price", o.OrderID, o.TotalAmount)
	}
	return nil
}

// ValidateOrders validates a whole batch, reporting the first offender.
func ValidateOrders(orders []Order) error {
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
