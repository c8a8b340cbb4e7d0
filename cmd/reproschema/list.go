package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reproforge/reproschema/internal/domain/ports"
	"github.com/reproforge/reproschema/internal/domain/schemas"
)

func newListCmd() *cobra.Command {
	var schemaType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued schema files",
		Long:  "Lists all schema files recorded in the workspace registry with optional filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, schemaType)
		},
	}

	cmd.Flags().StringVarP(&schemaType, "type", "t", "", "Filter by type tag (e.g. reproschema:Activity)")

	return cmd
}

func runList(cmd *cobra.Command, schemaType string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		var records []ports.SchemaRecord
		var err error

		if schemaType != "" {
			records, err = d.Library.ListByType(ctx, schemas.Type(schemaType))
		} else {
			records, err = d.Library.List(ctx)
		}
		if err != nil {
			return fmt.Errorf("listing schemas: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No schemas found.")
			return nil
		}

		displayRecords(records)
		return nil
	})
}

func displayRecords(records []ports.SchemaRecord) {
	fmt.Printf("Showing %d schemas:\n\n", len(records))

	for _, record := range records {
		fmt.Printf("ID: %s\n", record.ID)
		fmt.Printf("  [%s] %s\n", record.Type, record.Name)
		fmt.Printf("  Path: %s\n", record.Path)
		if record.SchemaVersion != "" {
			fmt.Printf("  Schema version: %s\n", record.SchemaVersion)
		}
		fmt.Println()
	}
}
