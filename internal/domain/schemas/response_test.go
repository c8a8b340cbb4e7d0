package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseOption_ChoiceOrderAndBounds(t *testing.T) {
	resp := NewResponseOption("en")
	resp.AddChoice("Not at all", 0)
	resp.AddChoice("Several days", 1)
	resp.SetMax(1)
	resp.SetMin(0)

	doc := resp.Document()
	min, ok := doc.Get("minValue")
	require.True(t, ok)
	assert.Equal(t, 0, min)
	max, ok := doc.Get("maxValue")
	require.True(t, ok)
	assert.Equal(t, 1, max)

	raw, ok := doc.Get("choices")
	require.True(t, ok)
	choices := raw.([]any)
	require.Len(t, choices, 2)

	first := choices[0].(*Document)
	name, _ := first.Get("name")
	assert.Equal(t, LangMap{"en": "Not at all"}, name)
	value, _ := first.Get("value")
	assert.Equal(t, 0, value)

	second := choices[1].(*Document)
	value, _ = second.Get("value")
	assert.Equal(t, 1, value)
}

func TestResponseOption_DeriveBounds(t *testing.T) {
	t.Run("derives from numeric choice values", func(t *testing.T) {
		resp := NewResponseOption("en")
		resp.AddChoice("low", 2)
		resp.AddChoice("high", 7)
		resp.AddChoice("text", "n/a")
		resp.DeriveBounds()

		doc := resp.Document()
		min, _ := doc.Get("minValue")
		assert.Equal(t, 2, min)
		max, _ := doc.Get("maxValue")
		assert.Equal(t, 7, max)
	})

	t.Run("explicit bounds win over derivation", func(t *testing.T) {
		resp := NewResponseOption("en")
		resp.AddChoice("low", 2)
		resp.AddChoice("high", 7)
		resp.SetMax(10)
		resp.DeriveBounds()

		doc := resp.Document()
		min, _ := doc.Get("minValue")
		assert.Equal(t, 2, min)
		max, _ := doc.Get("maxValue")
		assert.Equal(t, 10, max)
	})

	t.Run("no derivation without explicit call", func(t *testing.T) {
		resp := NewResponseOption("en")
		resp.AddChoice("low", 2)

		doc := resp.Document()
		_, ok := doc.Get("minValue")
		assert.False(t, ok)
		_, ok = doc.Get("maxValue")
		assert.False(t, ok)
	})

	t.Run("non-numeric choices leave bounds unset", func(t *testing.T) {
		resp := NewResponseOption("en")
		resp.AddChoice("yes", "y")
		resp.AddChoice("no", "n")
		resp.DeriveBounds()

		doc := resp.Document()
		_, ok := doc.Get("minValue")
		assert.False(t, ok)
	})
}

func TestResponseOption_MultipleChoice(t *testing.T) {
	resp := NewResponseOption("en")
	resp.AddChoice("a", 0)

	doc := resp.Document()
	_, ok := doc.Get("multipleChoice")
	assert.False(t, ok, "flag omitted until set")

	resp.SetMultipleChoice(false)
	doc = resp.Document()
	multiple, ok := doc.Get("multipleChoice")
	require.True(t, ok, "explicit false is emitted")
	assert.Equal(t, false, multiple)
}

func TestResponseOption_ChoiceLanguage(t *testing.T) {
	resp := NewResponseOption("es")
	resp.AddChoice("Nada", 0)
	resp.AddChoice("Beaucoup", 3, "fr")

	choices := resp.Choices()
	require.Len(t, choices, 2)
	assert.Equal(t, LangMap{"es": "Nada"}, choices[0].Name)
	assert.Equal(t, LangMap{"fr": "Beaucoup"}, choices[1].Name)
}

func TestResponseOption_CanonicalOrder(t *testing.T) {
	resp := NewResponseOption("en")
	resp.SetValueType("xsd:integer")
	resp.AddChoice("a", 0)
	resp.SetMultipleChoice(true)
	resp.SetMin(0)
	resp.SetMax(3)

	assert.Equal(t,
		[]string{"@type", "valueType", "minValue", "maxValue", "multipleChoice", "choices"},
		resp.Document().Keys())
}

func TestResponseOptionFromDocument_TypeMismatch(t *testing.T) {
	doc := NewDocument()
	doc.Set("@type", string(TypeField))

	_, err := ResponseOptionFromDocument(doc, "en")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestResponseOptionFromDocument_RoundTrip(t *testing.T) {
	resp := NewResponseOption("en")
	resp.SetValueType("xsd:integer")
	resp.AddChoice("Not at all", 0)
	resp.AddChoice("Several days", 1)
	resp.SetMax(1)

	data, err := json.Marshal(resp.Document())
	require.NoError(t, err)

	loadedDoc := NewDocument()
	require.NoError(t, json.Unmarshal(data, loadedDoc))
	loaded, err := ResponseOptionFromDocument(loadedDoc, "en")
	require.NoError(t, err)

	reencoded, err := json.Marshal(loaded.Document())
	require.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}
