// Package main provides the entry point for the reproschema CLI
// application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "reproschema",
		Short:   "Create, validate and catalogue questionnaire schema files",
		Version: version,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newCreateCmd(),
		newValidateCmd(),
		newListCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
