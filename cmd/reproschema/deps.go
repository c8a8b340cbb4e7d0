package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reproforge/reproschema/internal/application/handlers"
	"github.com/reproforge/reproschema/internal/domain/services"
	"github.com/reproforge/reproschema/internal/infrastructure/config"
	"github.com/reproforge/reproschema/internal/infrastructure/registry/sqlite"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	Config       *config.Config
	Library      *services.LibraryService
	BuildHandler *handlers.BuildHandler
}

// withDeps loads config, opens the registry and builds dependencies, then
// calls the provided function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry, err := sqlite.NewRepository(config.RegistryConfig{Path: cfg.RegistryPath(cwd)})
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	defer registry.Close()

	if err := registry.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("preparing registry: %w", err)
	}

	library := services.NewLibraryService(registry)

	return fn(&Deps{
		Config:       cfg,
		Library:      library,
		BuildHandler: handlers.NewBuildHandler(library, cfg),
	})
}
