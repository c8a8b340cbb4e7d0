// Package services contains domain services operating on the schema
// catalogue.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reproforge/reproschema/internal/domain/ports"
	"github.com/reproforge/reproschema/internal/domain/schemas"
)

// LibraryService manages the catalogue of generated schema files.
type LibraryService struct {
	registry ports.Registry
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(registry ports.Registry) *LibraryService {
	return &LibraryService{registry: registry}
}

// Register catalogues a written schema file. Re-registering the same path
// updates the stored record.
func (s *LibraryService) Register(ctx context.Context, name string, typ schemas.Type, path, schemaVersion string) (*ports.SchemaRecord, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: cannot register type tag %q", schemas.ErrValidation, typ)
	}
	if path == "" {
		return nil, errors.New("cannot register an empty path")
	}

	record := &ports.SchemaRecord{
		Name:          name,
		Type:          string(typ),
		Path:          path,
		SchemaVersion: schemaVersion,
	}
	if existing, err := s.registry.FindByPath(ctx, path); err != nil {
		return nil, fmt.Errorf("checking schema record: %w", err)
	} else if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}

	if err := s.registry.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("registering schema: %w", err)
	}
	return record, nil
}

// List returns all catalogued schemas.
func (s *LibraryService) List(ctx context.Context) ([]ports.SchemaRecord, error) {
	return s.registry.List(ctx)
}

// ListByType returns the catalogued schemas with the given type tag.
func (s *LibraryService) ListByType(ctx context.Context, typ schemas.Type) ([]ports.SchemaRecord, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unsupported type tag %q", schemas.ErrValidation, typ)
	}
	return s.registry.ListByType(ctx, string(typ))
}

// Find returns the record for a schema file path, nil if not catalogued.
func (s *LibraryService) Find(ctx context.Context, path string) (*ports.SchemaRecord, error) {
	return s.registry.FindByPath(ctx, path)
}

// Forget removes a record from the catalogue. The schema file itself is
// left untouched.
func (s *LibraryService) Forget(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("record id is required")
	}
	return s.registry.Delete(ctx, id)
}
