package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_AppendItem(t *testing.T) {
	a, err := NewActivity(Options{Name: "activity1"})
	require.NoError(t, err)

	it, err := NewItem(Options{Name: "item1", OutputDir: "items"})
	require.NoError(t, err)
	a.AppendItem(it)

	ui := a.UI()
	assert.Equal(t, []string{"items/item1_schema.jsonld"}, ui.Order())

	entries := ui.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "item1", entries[0].Variable)
	assert.Equal(t, "items/item1_schema.jsonld", entries[0].IsAbout)
	assert.Equal(t, []string{AllowSkipped}, entries[0].Allow)
}

func TestActivity_AppendItemTwiceKeepsDuplicates(t *testing.T) {
	a, err := NewActivity(Options{Name: "activity1"})
	require.NoError(t, err)

	it, err := NewItem(Options{Name: "item1", OutputDir: "items"})
	require.NoError(t, err)
	a.AppendItem(it)
	a.AppendItem(it)

	assert.Equal(t,
		[]string{"items/item1_schema.jsonld", "items/item1_schema.jsonld"},
		a.UI().Order())
	assert.Len(t, a.UI().Entries(), 2)
}

func TestActivity_HiddenRequiredChildDirectives(t *testing.T) {
	a, err := NewActivity(Options{Name: "a1"})
	require.NoError(t, err)

	hidden := false
	required := true
	it, err := NewItem(Options{Name: "q1", Visible: &hidden, Required: &required})
	require.NoError(t, err)
	it.SetLimit("P1D")
	a.AppendItem(it)

	entry := a.UI().Entries()[0]
	require.NotNil(t, entry.IsVis)
	assert.False(t, *entry.IsVis)
	require.NotNil(t, entry.Required)
	assert.True(t, *entry.Required)
	assert.Equal(t, "P1D", entry.Limit)
}

func TestActivity_DocumentUIOrder(t *testing.T) {
	a, err := NewActivity(Options{Name: "a1"})
	require.NoError(t, err)
	it, err := NewItem(Options{Name: "q1", OutputDir: "items"})
	require.NoError(t, err)
	a.AppendItem(it)

	doc := a.Document()
	raw, ok := doc.Get("ui")
	require.True(t, ok)
	ui := raw.(*Document)
	assert.Equal(t, []string{"shuffle", "order", "addProperties"}, ui.Keys())

	assertCanonicalOrder(t, doc.Keys(), activityOrder)
}

func TestActivityFromDocument_TypeMismatch(t *testing.T) {
	doc := NewDocument()
	doc.Set("@type", string(TypeProtocol))

	_, err := ActivityFromDocument(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
