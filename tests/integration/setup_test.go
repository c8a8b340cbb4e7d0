package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reproforge/reproschema/internal/application/handlers"
	"github.com/reproforge/reproschema/internal/domain/services"
	"github.com/reproforge/reproschema/internal/infrastructure/config"
	"github.com/reproforge/reproschema/internal/infrastructure/registry/sqlite"
)

// newTestLibrary opens a throwaway SQLite registry under t.TempDir and
// wraps it in a LibraryService.
func newTestLibrary(t *testing.T) *services.LibraryService {
	t.Helper()

	repo, err := sqlite.NewRepository(config.RegistryConfig{
		Path: filepath.Join(t.TempDir(), "registry.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return services.NewLibraryService(repo)
}

// newTestBuildHandler builds a BuildHandler backed by a fresh registry and
// default config.
func newTestBuildHandler(t *testing.T) (*handlers.BuildHandler, *services.LibraryService) {
	t.Helper()

	library := newTestLibrary(t)
	return handlers.NewBuildHandler(library, config.Default()), library
}
