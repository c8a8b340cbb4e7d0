// Package sqlite provides a SQLite implementation of the Registry
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/reproforge/reproschema/internal/domain/ports"
	"github.com/reproforge/reproschema/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.Registry using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite registry repository.
func NewRepository(cfg config.RegistryConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("registry path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Generated schema files, keyed by output path
	CREATE TABLE IF NOT EXISTS schemas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		schema_version TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_schemas_type ON schemas(type);
	CREATE INDEX IF NOT EXISTS idx_schemas_name ON schemas(name);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating registry schema: %w", err)
	}
	return nil
}

// Save stores or updates a record. Records are keyed by path: saving the
// same path twice updates the existing record in place.
func (r *Repository) Save(ctx context.Context, record *ports.SchemaRecord) error {
	if record.ID == "" {
		record.ID = generateUUID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = timeNow().UTC()
	}

	query := `
	INSERT INTO schemas (id, name, type, path, schema_version, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		schema_version = excluded.schema_version
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Type, record.Path, record.SchemaVersion, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving schema record: %w", err)
	}
	return nil
}

// FindByPath finds a record by its file path, nil if not found.
func (r *Repository) FindByPath(ctx context.Context, path string) (*ports.SchemaRecord, error) {
	query := `SELECT id, name, type, path, schema_version, created_at FROM schemas WHERE path = ?`

	var record ports.SchemaRecord
	err := r.db.QueryRowContext(ctx, query, path).Scan(
		&record.ID, &record.Name, &record.Type, &record.Path, &record.SchemaVersion, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding schema record: %w", err)
	}
	return &record, nil
}

// List lists all records ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]ports.SchemaRecord, error) {
	query := `SELECT id, name, type, path, schema_version, created_at FROM schemas ORDER BY created_at, path`
	return r.queryRecords(ctx, query)
}

// ListByType lists all records with the given type tag.
func (r *Repository) ListByType(ctx context.Context, schemaType string) ([]ports.SchemaRecord, error) {
	query := `SELECT id, name, type, path, schema_version, created_at FROM schemas WHERE type = ? ORDER BY created_at, path`
	return r.queryRecords(ctx, query, schemaType)
}

// Delete removes a record by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schemas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schema record: %w", err)
	}
	return nil
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]ports.SchemaRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schema records: %w", err)
	}
	defer rows.Close()

	var records []ports.SchemaRecord
	for rows.Next() {
		var record ports.SchemaRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Type, &record.Path, &record.SchemaVersion, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning schema record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schema records: %w", err)
	}
	return records, nil
}
