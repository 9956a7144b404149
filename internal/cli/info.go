package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/pkg/version"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show configuration information",
	Long: `Print the effective configuration with secrets masked, along with
the feature flags and service endpoints.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false,
		"emit configuration as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	red := cfg.Redacted()

	if infoJSON {
		out := struct {
			Version string         `json:"version"`
			Config  *config.Config `json:"config"`
		}{version.Short(), red}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s\n\n", version.Info())

	cmd.Println("Application:")
	cmd.Printf("  Name:        %s\n", red.AppName)
	cmd.Printf("  Environment: %s\n", red.Environment)
	cmd.Printf("  Debug:       %t\n", red.Debug)
	cmd.Printf("  Log level:   %s\n", red.LogLevel)

	cmd.Println("\nEndpoints:")
	cmd.Printf("  Trino:    %s:%d (catalog %s)\n", red.TrinoHost, red.TrinoPort, red.TrinoCatalog)
	cmd.Printf("  Postgres: %s:%d/%s\n", red.PostgresHost, red.PostgresPort, red.PostgresDB)
	cmd.Printf("  Redis:    %s\n", red.RedisAddr())
	cmd.Printf("  MinIO:    %s (bucket %s)\n", red.MinIOEndpoint, red.MinIOBucket)

	cmd.Println("\nProcessing:")
	cmd.Printf("  Batch size:       %d\n", red.BatchSize)
	cmd.Printf("  Max retries:      %d\n", red.MaxRetries)
	cmd.Printf("  Query timeout:    %s\n", red.QueryTimeout())
	cmd.Printf("  Parallel workers: %d\n", red.ParallelWorkers)

	cmd.Println("\nFeature flags:")
	cmd.Printf("  Email alerts:    %t\n", red.SendEmailAlerts)
	cmd.Printf("  Data validation: %t\n", red.EnableDataValidation)
	cmd.Printf("  Dry run mode:    %t\n", red.DryRunMode)
	cmd.Printf("  Auto create:     %t\n", red.AutoCreateTables)

	return nil
}
