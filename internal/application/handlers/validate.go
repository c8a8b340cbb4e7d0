package handlers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/reproforge/reproschema/internal/domain/schemas"
)

// ValidateHandler checks schema files: parseability, an @type tag from the
// supported set, and internal consistency of the loaded variant.
type ValidateHandler struct{}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// FileReport is the validation outcome for one file.
type FileReport struct {
	Path  string `json:"path"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidateResult aggregates per-file reports.
type ValidateResult struct {
	Reports []FileReport `json:"reports"`
	Invalid int          `json:"invalid"`
}

// HandleValidate validates every given path. Directories are walked
// recursively for .jsonld files. Validation failures are reported per file;
// an error return means a path could not be read at all.
func (h *ValidateHandler) HandleValidate(ctx context.Context, paths []string) (*ValidateResult, error) {
	files, err := collectSchemaFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files found in %v", paths)
	}

	result := &ValidateResult{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report := FileReport{Path: file}
		entity, err := schemas.FromFile(file)
		if err != nil {
			report.Error = err.Error()
			result.Invalid++
		} else {
			report.Type = string(entity.Type())
		}
		result.Reports = append(result.Reports, report)
	}
	return result, nil
}

func collectSchemaFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".jsonld") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}
