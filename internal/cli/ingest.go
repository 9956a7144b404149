package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestSource string
	ingestTarget string
)

var ingestFormats = []string{"csv", "json", "parquet"}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run data ingestion (placeholder)",
	Long: `Reserved entry point for loading external data files into the
lakehouse. The flags are validated but nothing is ingested yet.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "",
		"source data format (csv, json, parquet)")
	ingestCmd.Flags().StringVarP(&ingestTarget, "target", "t", "",
		"target table name")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestSource == "" || ingestTarget == "" {
		return fmt.Errorf("both --source and --target are required")
	}
	if !slices.Contains(ingestFormats, ingestSource) {
		return fmt.Errorf("unknown source format %q, expected one of: %s",
			ingestSource, strings.Join(ingestFormats, ", "))
	}

	cmd.Printf("Source format: %s\n", ingestSource)
	cmd.Printf("Target table:  %s\n", ingestTarget)
	cmd.Println("Ingestion is not implemented yet.")
	return nil
}
