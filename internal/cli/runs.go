package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/clients"
	"github.com/lakeshed/lakeshed/internal/logging"
	"github.com/lakeshed/lakeshed/internal/metastore"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	Long: `Show the most recent demo and analyze runs from the run log in the
metastore database, newest first.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mgr := clients.NewManager(cfg)
	defer mgr.CloseAll()

	pg, err := mgr.Postgres(ctx)
	if err != nil {
		return err
	}

	exists, err := metastore.RunLogExists(ctx, pg.Pool())
	if err != nil {
		return err
	}
	if !exists {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	runs, err := metastore.LastRuns(ctx, pg.Pool(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	cmd.Printf("%-5s %-8s %-9s %-20s %-10s %8s %8s  %s\n",
		"ID", "KIND", "STATUS", "FINISHED", "DURATION", "RECORDS", "BATCHES", "DETAIL")
	for _, r := range runs {
		cmd.Printf("%-5d %-8s %-9s %-20s %-10s %8d %8d  %s\n",
			r.ID, r.Kind, r.Status,
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(10*time.Millisecond).String(),
			r.Records, r.Batches, r.Detail)
	}
	return nil
}

// recordRun writes one entry to the run log. The pipeline result never
// depends on it; failures are logged and swallowed.
func recordRun(ctx context.Context, mgr *clients.Manager, run metastore.Run) {
	pg, err := mgr.Postgres(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Run not recorded, metastore unreachable")
		return
	}
	if err := metastore.RecordRun(ctx, pg.Pool(), run); err != nil {
		logging.Warn().Err(err).Msg("Run not recorded")
	}
}
