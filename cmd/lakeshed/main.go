// Package main is the entry point for lakeshed.
package main

import (
	"fmt"
	"os"

	"github.com/lakeshed/lakeshed/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
