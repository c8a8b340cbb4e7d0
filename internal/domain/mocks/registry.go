// Package mocks provides in-memory implementations of the domain ports for
// tests.
package mocks

import (
	"context"
	"sort"

	"github.com/reproforge/reproschema/internal/domain/ports"
)

// Registry is a mock implementation of ports.Registry.
type Registry struct {
	Records map[string]*ports.SchemaRecord // keyed by path
	Err     error
}

// NewRegistry creates a new mock Registry.
func NewRegistry() *Registry {
	return &Registry{
		Records: make(map[string]*ports.SchemaRecord),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *Registry) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *Registry) Close() error {
	return nil
}

// Save stores or updates a record.
func (m *Registry) Save(_ context.Context, record *ports.SchemaRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Records[record.Path] = record
	return nil
}

// FindByPath finds a record by its file path.
func (m *Registry) FindByPath(_ context.Context, path string) (*ports.SchemaRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records[path], nil
}

// List lists all records.
func (m *Registry) List(_ context.Context) ([]ports.SchemaRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]ports.SchemaRecord, 0, len(m.Records))
	for _, r := range m.Records {
		result = append(result, *r)
	}
	// Sort by path for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result, nil
}

// ListByType lists all records with the given type tag.
func (m *Registry) ListByType(_ context.Context, schemaType string) ([]ports.SchemaRecord, error) {
	all, err := m.List(context.Background())
	if err != nil {
		return nil, err
	}
	result := make([]ports.SchemaRecord, 0, len(all))
	for _, r := range all {
		if r.Type == schemaType {
			result = append(result, r)
		}
	}
	return result, nil
}

// Delete removes a record by ID.
func (m *Registry) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	for path, r := range m.Records {
		if r.ID == id {
			delete(m.Records, path)
			return nil
		}
	}
	return nil
}
