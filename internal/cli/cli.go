//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for lakeshed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
	"github.com/lakeshed/lakeshed/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	debug    bool

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "lakeshed",
		Short: "Lakehouse demo pipeline for Trino and Iceberg",
		Long: `lakeshed drives a small lakehouse stack: it generates synthetic
e-commerce orders, loads them into an Iceberg table through Trino, and
runs analytical queries over the result.

The expected stack is the usual demo quartet: Trino as the query
engine, a Postgres-backed Hive metastore, MinIO for table storage, and
Redis for caching. Settings come from the environment or an env file,
the same one the docker-compose stack reads.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"env file (default: ./.env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(runsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.Debug = true
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}

	// Reinitialize logger with config
	logging.Init(logging.Options{
		Level:  level,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
