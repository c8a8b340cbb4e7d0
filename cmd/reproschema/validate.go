package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reproforge/reproschema/internal/application/handlers"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate schema files",
		Long:  "Checks that the given schema files parse, carry a supported type tag and load cleanly. Directories are walked for .jsonld files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()

	handler := handlers.NewValidateHandler()
	result, err := handler.HandleValidate(ctx, paths)
	if err != nil {
		return err
	}

	for _, report := range result.Reports {
		if report.Error != "" {
			fmt.Printf("FAIL %s\n  %s\n", report.Path, report.Error)
		} else {
			fmt.Printf("ok   %s [%s]\n", report.Path, report.Type)
		}
	}

	if result.Invalid > 0 {
		return fmt.Errorf("%d of %d files invalid", result.Invalid, len(result.Reports))
	}
	fmt.Printf("All %d files valid.\n", len(result.Reports))
	return nil
}
