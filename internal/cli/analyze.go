package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/clients"
	"github.com/lakeshed/lakeshed/internal/lakehouse"
	"github.com/lakeshed/lakeshed/internal/metastore"
)

var (
	analyzeSchema string
	analyzeTable  string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run analytical queries over the order table",
	Long: `Run the analysis suite over the order table: overall statistics,
category and regional breakdowns, the monthly trend, and the top
products and customers.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSchema, "schema", lakehouse.DefaultSchema,
		"schema to analyze")
	analyzeCmd.Flags().StringVar(&analyzeTable, "table", lakehouse.DefaultTable,
		"table to analyze")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"emit the report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mgr := clients.NewManager(cfg)
	defer mgr.CloseAll()

	trino, err := mgr.Trino()
	if err != nil {
		return err
	}

	tbl := lakehouse.Table{
		Catalog: cfg.TrinoCatalog,
		Schema:  analyzeSchema,
		Name:    analyzeTable,
		Bucket:  cfg.MinIOBucket,
	}

	exists, err := lakehouse.TableExists(ctx, trino, tbl)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s does not exist, run 'lakeshed demo' first", tbl.FQN())
	}

	started := time.Now()
	rep, err := lakehouse.RunAnalysis(ctx, trino, tbl)
	finished := time.Now()

	run := metastore.Run{
		Kind:       metastore.KindAnalyze,
		StartedAt:  started,
		FinishedAt: finished,
		Status:     metastore.StatusSucceeded,
	}
	if err != nil {
		run.Status = metastore.StatusFailed
		run.Detail = err.Error()
		recordRun(ctx, mgr, run)
		return err
	}
	run.Records = rep.Stats.TotalRecords
	recordRun(ctx, mgr, run)

	if analyzeJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, rep)
	return nil
}

func printReport(cmd *cobra.Command, rep *lakehouse.Report) {
	cmd.Printf("Table: %s\n\n", rep.Table)

	s := rep.Stats
	cmd.Println("Overview:")
	cmd.Printf("  Records:          %d\n", s.TotalRecords)
	cmd.Printf("  Unique customers: %d\n", s.UniqueCustomers)
	cmd.Printf("  Unique products:  %d\n", s.UniqueProducts)
	cmd.Printf("  Order dates:      %s to %s\n",
		s.EarliestOrder.Format("2006-01-02"), s.LatestOrder.Format("2006-01-02"))
	cmd.Printf("  Total revenue:    $%.2f\n", s.TotalRevenue)
	cmd.Printf("  Avg order value:  $%.2f\n", s.AvgOrderValue)

	cmd.Println("\nRevenue by category:")
	for _, c := range rep.Categories {
		cmd.Printf("  %-15s $%12.2f  (%d orders, %d items)\n",
			c.Category, c.TotalRevenue, c.OrderCount, c.TotalQuantity)
	}

	cmd.Println("\nRevenue by region:")
	for _, r := range rep.Regions {
		cmd.Printf("  %-8s $%12.2f  (%d orders, %d customers)\n",
			r.Region, r.TotalRevenue, r.OrderCount, r.UniqueCustomers)
	}

	cmd.Println("\nMonthly trend (last 10):")
	monthly := rep.Monthly
	if len(monthly) > 10 {
		monthly = monthly[len(monthly)-10:]
	}
	for _, m := range monthly {
		cmd.Printf("  %s  $%12.2f  (%d orders)\n", m.Month, m.MonthlyRevenue, m.OrderCount)
	}

	cmd.Println("\nTop products:")
	for i, p := range rep.TopProducts {
		cmd.Printf("  %2d. %-15s %-12s $%12.2f  (%d sold)\n",
			i+1, p.ProductName, p.Category, p.TotalRevenue, p.TotalQuantity)
	}

	cmd.Println("\nTop customers:")
	for i, c := range rep.TopCustomers {
		cmd.Printf("  %2d. %s  $%10.2f  (%d orders, %d items)\n",
			i+1, c.CustomerID, c.TotalSpent, c.OrderCount, c.TotalItems)
	}
}
