package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reproforge/reproschema/internal/domain/mocks"
	"github.com/reproforge/reproschema/internal/domain/schemas"
)

func TestLibraryService_Register(t *testing.T) {
	registry := mocks.NewRegistry()
	svc := NewLibraryService(registry)
	ctx := context.Background()

	record, err := svc.Register(ctx, "protocol1", schemas.TypeProtocol, "protocols/protocol1_schema.jsonld", "1.0.0-rc4")
	require.NoError(t, err)
	assert.Equal(t, "protocol1", record.Name)
	assert.Equal(t, string(schemas.TypeProtocol), record.Type)
	require.Len(t, registry.Records, 1)
}

func TestLibraryService_Register_Validation(t *testing.T) {
	svc := NewLibraryService(mocks.NewRegistry())
	ctx := context.Background()

	_, err := svc.Register(ctx, "x", schemas.Type("reproschema:Wizard"), "x.jsonld", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrValidation)

	_, err = svc.Register(ctx, "x", schemas.TypeProtocol, "", "1")
	require.Error(t, err)
}

func TestLibraryService_Register_SamePathKeepsIdentity(t *testing.T) {
	registry := mocks.NewRegistry()
	svc := NewLibraryService(registry)
	ctx := context.Background()

	first, err := svc.Register(ctx, "p1", schemas.TypeProtocol, "p1_schema.jsonld", "1.0.0-rc4")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "p1", schemas.TypeProtocol, "p1_schema.jsonld", "1.1.0")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1.1.0", second.SchemaVersion)
	assert.Len(t, registry.Records, 1)
}

func TestLibraryService_Register_RegistryError(t *testing.T) {
	registry := mocks.NewRegistry()
	registry.Err = errors.New("disk full")
	svc := NewLibraryService(registry)

	_, err := svc.Register(context.Background(), "p1", schemas.TypeProtocol, "p1_schema.jsonld", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestLibraryService_ListByType(t *testing.T) {
	registry := mocks.NewRegistry()
	svc := NewLibraryService(registry)
	ctx := context.Background()

	_, err := svc.Register(ctx, "p1", schemas.TypeProtocol, "a", "1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "i1", schemas.TypeField, "b", "1")
	require.NoError(t, err)

	items, err := svc.ListByType(ctx, schemas.TypeField)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].Name)

	_, err = svc.ListByType(ctx, schemas.Type("bogus"))
	assert.ErrorIs(t, err, schemas.ErrValidation)
}
