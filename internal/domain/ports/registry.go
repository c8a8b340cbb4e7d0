// Package ports defines the interfaces between the domain and the
// infrastructure layer.
package ports

import (
	"context"
	"time"
)

// SchemaRecord is one catalogued schema file.
type SchemaRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Path          string    `json:"path"`
	SchemaVersion string    `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Registry defines the interface for the local schema catalogue.
type Registry interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Save stores or updates a record. Records are keyed by path: saving
	// the same path twice updates the existing record.
	Save(ctx context.Context, record *SchemaRecord) error

	// FindByPath finds a record by its file path, nil if not found.
	FindByPath(ctx context.Context, path string) (*SchemaRecord, error)

	// List lists all records ordered by creation time.
	List(ctx context.Context) ([]SchemaRecord, error)

	// ListByType lists all records with the given type tag.
	ListByType(ctx context.Context, schemaType string) ([]SchemaRecord, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error
}
