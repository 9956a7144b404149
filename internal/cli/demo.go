package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/alerts"
	"github.com/lakeshed/lakeshed/internal/clients"
	"github.com/lakeshed/lakeshed/internal/datagen"
	"github.com/lakeshed/lakeshed/internal/lakehouse"
	"github.com/lakeshed/lakeshed/internal/logging"
	"github.com/lakeshed/lakeshed/internal/metastore"
)

// lastDemoKey is the cache key under which the demo drops its summary.
const lastDemoKey = "lakeshed:last_demo"

var (
	demoRecords   int
	demoBatchSize int
	demoSeed      uint64
	demoSchema    string
	demoTable     string
	demoRecreate  bool
	demoDryRun    bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate orders and load them into the Iceberg table",
	Long: `Generate synthetic e-commerce orders, load them into an Iceberg
table through Trino, and verify the load with count, sample, and
aggregation queries.

With --dry-run (or DRY_RUN_MODE=true) every statement is logged
instead of executed and the verification step is skipped.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoRecords, "records", 2000,
		"number of orders to generate")
	demoCmd.Flags().IntVar(&demoBatchSize, "batch-size", 200,
		"rows per INSERT statement")
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 0,
		"random seed (0 seeds from the clock)")
	demoCmd.Flags().StringVar(&demoSchema, "schema", lakehouse.DefaultSchema,
		"target schema")
	demoCmd.Flags().StringVar(&demoTable, "table", lakehouse.DefaultTable,
		"target table")
	demoCmd.Flags().BoolVar(&demoRecreate, "recreate", false,
		"drop the table before loading")
	demoCmd.Flags().BoolVar(&demoDryRun, "dry-run", false,
		"log statements instead of executing them")
}

// demoResult is the summary published to the cache and the alert mail.
type demoResult struct {
	Table      string    `json:"table"`
	Records    int       `json:"records"`
	Batches    int       `json:"batches"`
	Elapsed    string    `json:"elapsed"`
	RowCount   int64     `json:"row_count"`
	DryRun     bool      `json:"dry_run"`
	FinishedAt time.Time `json:"finished_at"`
}

func runDemo(cmd *cobra.Command, args []string) error {
	if demoRecords < 0 {
		return fmt.Errorf("records must not be negative, got %d", demoRecords)
	}
	if demoDryRun {
		cfg.DryRunMode = true
	}

	ctx := cmd.Context()
	mgr := clients.NewManager(cfg)
	defer mgr.CloseAll()

	tbl := lakehouse.Table{
		Catalog: cfg.TrinoCatalog,
		Schema:  demoSchema,
		Name:    demoTable,
		Bucket:  cfg.MinIOBucket,
	}
	mailer := alerts.NewMailer(cfg)

	if !cfg.DryRunMode {
		preflightBucket(ctx, mgr, tbl)
	}

	started := time.Now()
	stats, verification, err := runDemoPipeline(ctx, mgr, tbl)
	finished := time.Now()

	run := metastore.Run{
		Kind:       metastore.KindDemo,
		StartedAt:  started,
		FinishedAt: finished,
		Status:     metastore.StatusSucceeded,
	}
	if stats != nil {
		run.Records = int64(stats.Rows)
		run.Batches = int64(stats.Batches)
	}

	if err != nil {
		run.Status = metastore.StatusFailed
		run.Detail = err.Error()
		if !cfg.DryRunMode {
			recordRun(ctx, mgr, run)
			sendAlert(mailer, "lakeshed demo failed",
				fmt.Sprintf("Demo run against %s failed after %s: %v",
					tbl.FQN(), finished.Sub(started).Round(time.Millisecond), err))
		}
		return err
	}

	result := demoResult{
		Table:      tbl.FQN(),
		Records:    stats.Rows,
		Batches:    stats.Batches,
		Elapsed:    finished.Sub(started).Round(time.Millisecond).String(),
		DryRun:     cfg.DryRunMode,
		FinishedAt: finished.UTC(),
	}
	if verification != nil {
		result.RowCount = verification.RowCount
	}

	if !cfg.DryRunMode {
		run.Detail = fmt.Sprintf("%d rows in %d batches", stats.Rows, stats.Batches)
		recordRun(ctx, mgr, run)
		cacheDemoResult(ctx, mgr, result)
		sendAlert(mailer, "lakeshed demo succeeded",
			fmt.Sprintf("Loaded %d rows into %s in %d batches (%s).",
				stats.Rows, tbl.FQN(), stats.Batches, result.Elapsed))
	}

	printDemoResult(cmd, result, verification)
	return nil
}

// runDemoPipeline prepares the table, loads the generated orders, and
// verifies the result. In dry run mode nothing reaches Trino and no
// verification runs.
func runDemoPipeline(ctx context.Context, mgr *clients.Manager, tbl lakehouse.Table) (*lakehouse.InsertStats, *lakehouse.Verification, error) {
	var runner lakehouse.Runner
	if cfg.DryRunMode {
		logging.Info().Msg("Dry run mode is on, statements will only be logged")
		runner = lakehouse.NewDryRunner()
	} else {
		trino, err := mgr.Trino()
		if err != nil {
			return nil, nil, err
		}
		runner = trino
	}

	if demoRecreate {
		if err := lakehouse.DropOrdersTable(ctx, runner, tbl); err != nil {
			return nil, nil, err
		}
	}

	if cfg.AutoCreateTables {
		if err := lakehouse.CreateSchema(ctx, runner, tbl); err != nil {
			return nil, nil, err
		}
		if err := lakehouse.CreateOrdersTable(ctx, runner, tbl); err != nil {
			return nil, nil, err
		}
	} else if !cfg.DryRunMode {
		exists, err := lakehouse.TableExists(ctx, runner, tbl)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, fmt.Errorf("table %s does not exist and auto_create_tables is off", tbl.FQN())
		}
	}

	var faker *datagen.Faker
	if demoSeed != 0 {
		faker = datagen.NewFakerWithSeed(demoSeed)
	} else {
		faker = datagen.NewFaker()
	}

	logging.Info().Int("records", demoRecords).Msg("Generating orders")
	orders := datagen.GenerateOrders(faker, demoRecords)

	if cfg.EnableDataValidation {
		if err := datagen.ValidateOrders(orders); err != nil {
			return nil, nil, fmt.Errorf("generated data failed validation: %w", err)
		}
		logging.Debug().Int("records", len(orders)).Msg("Generated orders validated")
	}

	stats, err := lakehouse.InsertOrders(ctx, runner, tbl, orders, demoBatchSize)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DryRunMode {
		return stats, nil, nil
	}

	verification, err := lakehouse.VerifyOrders(ctx, runner, tbl)
	if err != nil {
		return stats, nil, err
	}
	return stats, verification, nil
}

// preflightBucket warns when the warehouse bucket is missing. The demo
// still proceeds; Trino reports its own error if writes cannot land.
func preflightBucket(ctx context.Context, mgr *clients.Manager, tbl lakehouse.Table) {
	store, err := mgr.ObjectStore()
	if err != nil {
		logging.Warn().Err(err).Msg("Bucket check skipped")
		return
	}
	ok, err := store.BucketExists(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Bucket check failed")
		return
	}
	if !ok {
		logging.Warn().
			Str("bucket", store.Bucket()).
			Msg("Warehouse bucket missing, table creation may fail")
		return
	}

	objects, err := store.List(ctx, tbl.Prefix())
	if err != nil {
		logging.Warn().Err(err).Msg("Could not list table data files")
		return
	}
	logging.Debug().
		Int("objects", len(objects)).
		Str("prefix", tbl.Prefix()).
		Msg("Table data files before load")
}

func cacheDemoResult(ctx context.Context, mgr *clients.Manager, result demoResult) {
	data, err := json.Marshal(result)
	if err != nil {
		logging.Warn().Err(err).Msg("Demo summary not cached")
		return
	}
	if err := mgr.Redis().Set(ctx, lastDemoKey, string(data), time.Hour); err != nil {
		logging.Warn().Err(err).Msg("Demo summary not cached, redis unreachable")
		return
	}
	logging.Debug().Str("key", lastDemoKey).Msg("Demo summary cached")
}

func sendAlert(mailer *alerts.Mailer, subject, body string) {
	if err := mailer.Send(subject, body); err != nil {
		logging.Warn().Err(err).Msg("Alert not sent")
	}
}

func printDemoResult(cmd *cobra.Command, result demoResult, verification *lakehouse.Verification) {
	cmd.Printf("Loaded %d rows into %s in %d batches (%s)\n",
		result.Records, result.Table, result.Batches, result.Elapsed)

	if result.DryRun {
		cmd.Println("Dry run: no data was written.")
		return
	}
	if verification == nil {
		return
	}

	cmd.Printf("\nTable now holds %d rows.\n", verification.RowCount)
	if len(verification.ByCategory) > 0 {
		cmd.Println("\nRevenue by category:")
		for _, c := range verification.ByCategory {
			cmd.Printf("  %-15s $%12.2f  (%d orders, avg $%.2f)\n",
				c.Category, c.TotalRevenue, c.OrderCount, c.AvgOrderValue)
		}
	}
}
