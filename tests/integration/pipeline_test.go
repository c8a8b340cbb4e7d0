package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reproforge/reproschema/internal/application/handlers"
	"github.com/reproforge/reproschema/internal/domain/schemas"
	"github.com/reproforge/reproschema/internal/infrastructure/parsers"
)

const pipelineDefinition = `
protocol:
  name: wellbeing
  description: Weekly wellbeing check-in
  landing_page: https://example.org/wellbeing/README.md
  activities:
    - name: mood
      description: Mood self-report
      preamble: Answer thinking about the last 7 days.
      items:
        - name: mood rating
          question: How would you rate your mood?
          input_type: radio
          derive_bounds: true
          choices:
            - label: Poor
              value: 0
            - label: Fair
              value: 1
            - label: Good
              value: 2
        - name: notes
          question: Anything else to add?
          input_type: multitext
          max_length: 300
`

func parseDefinition(t *testing.T, text string) *parsers.Definition {
	t.Helper()

	def, err := (&parsers.YAMLParser{}).Parse(strings.NewReader(text))
	require.NoError(t, err)
	return def
}

func TestBuildWritesFullTree(t *testing.T) {
	ctx := context.Background()
	handler, library := newTestBuildHandler(t)
	outputRoot := t.TempDir()

	result, err := handler.HandleBuild(ctx, parseDefinition(t, pipelineDefinition), outputRoot)
	require.NoError(t, err)

	assert.Equal(t, "protocols/wellbeing_schema.jsonld", result.ProtocolFile)
	assert.ElementsMatch(t, []string{
		"protocols/wellbeing_schema.jsonld",
		"activities/mood_schema.jsonld",
		"activities/items/mood_rating_schema.jsonld",
		"activities/items/notes_schema.jsonld",
	}, result.Files)

	for _, file := range result.Files {
		_, err := os.Stat(filepath.Join(outputRoot, file))
		assert.NoError(t, err, "expected %s on disk", file)
	}

	// Every written file ends up in the registry.
	records, err := library.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestBuiltTreeValidates(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestBuildHandler(t)
	outputRoot := t.TempDir()

	_, err := handler.HandleBuild(ctx, parseDefinition(t, pipelineDefinition), outputRoot)
	require.NoError(t, err)

	result, err := handlers.NewValidateHandler().HandleValidate(ctx, []string{outputRoot})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Invalid)
	assert.Len(t, result.Reports, 4)
}

func TestBuiltTreeCrossReferences(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestBuildHandler(t)
	outputRoot := t.TempDir()

	_, err := handler.HandleBuild(ctx, parseDefinition(t, pipelineDefinition), outputRoot)
	require.NoError(t, err)

	protocol, err := schemas.ProtocolFromFile(filepath.Join(outputRoot, "protocols", "wellbeing_schema.jsonld"))
	require.NoError(t, err)

	doc := protocol.Document()
	ui, ok := doc.Get("ui")
	require.True(t, ok)
	order, ok := ui.(*schemas.Document).Get("order")
	require.True(t, ok)
	assert.Equal(t, []any{"../activities/mood_schema.jsonld"}, order)

	activity, err := schemas.ActivityFromFile(filepath.Join(outputRoot, "activities", "mood_schema.jsonld"))
	require.NoError(t, err)

	doc = activity.Document()
	ui, ok = doc.Get("ui")
	require.True(t, ok)
	order, ok = ui.(*schemas.Document).Get("order")
	require.True(t, ok)
	assert.Equal(t, []any{
		"items/mood_rating_schema.jsonld",
		"items/notes_schema.jsonld",
	}, order)
}

// TestReloadRewriteIsByteIdentical loads every generated file back through
// the typed loaders and writes it out again, expecting identical bytes.
func TestReloadRewriteIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestBuildHandler(t)
	outputRoot := t.TempDir()

	result, err := handler.HandleBuild(ctx, parseDefinition(t, pipelineDefinition), outputRoot)
	require.NoError(t, err)

	rewriteRoot := t.TempDir()
	for _, file := range result.Files {
		original := filepath.Join(outputRoot, file)

		entity, err := schemas.FromFile(original)
		require.NoError(t, err, "loading %s", file)

		rewriteDir := filepath.Join(rewriteRoot, filepath.Dir(file))
		switch e := entity.(type) {
		case *schemas.Protocol:
			require.NoError(t, e.Write(rewriteDir))
		case *schemas.Activity:
			require.NoError(t, e.Write(rewriteDir))
		case *schemas.Item:
			require.NoError(t, e.Write(rewriteDir))
		default:
			t.Fatalf("unexpected entity type for %s", file)
		}

		want, err := os.ReadFile(original)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(rewriteRoot, file))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "rewrite of %s differs", file)
	}
}

func TestBuildRejectsChoicelessRadio(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestBuildHandler(t)

	def := parseDefinition(t, `
protocol:
  name: broken
  activities:
    - name: survey
      items:
        - name: pick one
          question: Pick one
          input_type: radio
`)

	_, err := handler.HandleBuild(ctx, def, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrConfig)
}
