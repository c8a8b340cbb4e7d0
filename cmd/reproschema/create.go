package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reproforge/reproschema/internal/infrastructure/parsers"
)

type createFlags struct {
	format string
	output string
}

func newCreateCmd() *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Compile a definition file into schema files",
		Long:  "Reads a YAML or JSON protocol definition and writes the protocol, activity and item schema files it describes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Definition format (yaml, json, auto)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default: from config)")

	return cmd
}

func runCreate(cmd *cobra.Command, filePath string, flags createFlags) error {
	ctx := cmd.Context()

	var parser parsers.Parser
	if flags.format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		if !contains(validFormats, flags.format) {
			return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
		}
		parser = parsers.ForFormat(flags.format)
	}
	if parser == nil {
		return fmt.Errorf("cannot determine definition format for %s (use --format)", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening definition file: %w", err)
	}
	defer f.Close()

	def, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing definition: %w", err)
	}

	return withDeps(func(d *Deps) error {
		output := flags.output
		if output == "" {
			output = d.Config.Output.Dir
		}

		result, err := d.BuildHandler.HandleBuild(ctx, def, output)
		if err != nil {
			return err
		}

		for _, file := range result.Files {
			fmt.Printf("Wrote %s\n", file)
		}
		fmt.Printf("Created %d schema files under %s\n", len(result.Files), output)
		return nil
	})
}
