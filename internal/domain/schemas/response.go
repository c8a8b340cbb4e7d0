package schemas

import (
	"encoding/json"
	"fmt"
)

// responseOrder is the canonical key order of a response options document.
var responseOrder = []string{
	"@type",
	"valueType",
	"minValue",
	"maxValue",
	"maxLength",
	"multipleChoice",
	"choices",
}

// choiceOrder is the canonical key order of one choice.
var choiceOrder = []string{"name", "value"}

// Choice is one selectable option: a localized label and its recorded value.
type Choice struct {
	Name  LangMap
	Value any
}

// ResponseOption describes the answer set of an item: an ordered choice
// list, value bounds and the value type. It serializes inline inside the
// item's responseOptions key.
type ResponseOption struct {
	lang      string
	valueType string
	maxLength int
	minValue  any
	maxValue  any
	multiple  *bool
	choices   []Choice
}

// NewResponseOption returns an empty response option set using lang as the
// default language for choice labels. An empty lang falls back to the
// package default.
func NewResponseOption(lang string) *ResponseOption {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &ResponseOption{lang: lang}
}

// Type returns the response option type tag.
func (r *ResponseOption) Type() Type { return TypeResponseOption }

// Choices returns the choices in insertion order.
func (r *ResponseOption) Choices() []Choice {
	out := make([]Choice, len(r.choices))
	copy(out, r.choices)
	return out
}

// SetValueType sets the xsd value type of recorded answers.
func (r *ResponseOption) SetValueType(valueType string) { r.valueType = valueType }

// SetMaxLength caps the length of free-text answers.
func (r *ResponseOption) SetMaxLength(n int) { r.maxLength = n }

// AddChoice appends a choice. Insertion order is preserved in output. The
// label language defaults to the response option's configured language.
func (r *ResponseOption) AddChoice(label string, value any, lang ...string) {
	l := r.lang
	if len(lang) > 0 && lang[0] != "" {
		l = lang[0]
	}
	r.choices = append(r.choices, Choice{Name: LangMap{l: label}, Value: value})
}

// SetMin sets an explicit lower bound. Explicit bounds always win over
// derived ones.
func (r *ResponseOption) SetMin(v int) { r.minValue = v }

// SetMax sets an explicit upper bound.
func (r *ResponseOption) SetMax(v int) { r.maxValue = v }

// SetMultipleChoice toggles whether multiple selections are accepted. It
// only affects the serialized flag; the choice list is not validated
// against it.
func (r *ResponseOption) SetMultipleChoice(multiple bool) { r.multiple = &multiple }

// DeriveBounds fills minValue and maxValue from the numeric choice values.
// Derivation is opt-in and never overwrites an explicitly set bound.
// Choices without numeric values are ignored; with no numeric choices the
// bounds stay unset.
func (r *ResponseOption) DeriveBounds() {
	var min, max int
	found := false
	for _, choice := range r.choices {
		n, ok := asInt(choice.Value)
		if !ok {
			continue
		}
		if !found || n < min {
			min = n
		}
		if !found || n > max {
			max = n
		}
		found = true
	}
	if !found {
		return
	}
	if r.minValue == nil {
		r.minValue = min
	}
	if r.maxValue == nil {
		r.maxValue = max
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// Document projects the response options into an ordered document.
func (r *ResponseOption) Document() *Document {
	doc := NewDocument()
	doc.Set("@type", string(TypeResponseOption))
	doc.Set("valueType", r.valueType)
	doc.Set("minValue", r.minValue)
	doc.Set("maxValue", r.maxValue)
	if r.maxLength > 0 {
		doc.Set("maxLength", r.maxLength)
	}
	if r.multiple != nil {
		doc.Set("multipleChoice", *r.multiple)
	}
	if len(r.choices) > 0 {
		choices := make([]any, 0, len(r.choices))
		for _, choice := range r.choices {
			cd := NewDocument()
			cd.Set("name", choice.Name.Copy())
			cd.Set("value", choice.Value)
			choices = append(choices, cd.Reorder(choiceOrder))
		}
		doc.Set("choices", choices)
	}
	return doc.Reorder(responseOrder).Prune()
}

// ResponseOptionFromDocument parses a loaded response options document. The
// @type tag, when present, must match; embedded documents written without a
// tag are rejected by the item loader before reaching here only when the
// key is missing entirely, so a bare mapping is accepted.
func ResponseOptionFromDocument(doc *Document, lang string) (*ResponseOption, error) {
	if _, ok := doc.Get("@type"); ok {
		if err := checkType(doc, TypeResponseOption); err != nil {
			return nil, err
		}
	}
	r := NewResponseOption(lang)
	if err := applyString(doc, "valueType", &r.valueType); err != nil {
		return nil, err
	}
	if v, ok := doc.Get("minValue"); ok {
		r.minValue = v
	}
	if v, ok := doc.Get("maxValue"); ok {
		r.maxValue = v
	}
	if v, ok := doc.Get("maxLength"); ok {
		n, ok := asInt(v)
		if !ok {
			return nil, fmt.Errorf("%w: maxLength must be a number, got %T", ErrValidation, v)
		}
		r.maxLength = n
	}
	if v, ok := doc.Get("multipleChoice"); ok {
		flag, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: multipleChoice must be a boolean, got %T", ErrValidation, v)
		}
		r.multiple = &flag
	}
	if v, ok := doc.Get("choices"); ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: choices must be a sequence, got %T", ErrValidation, v)
		}
		for _, raw := range list {
			cd, ok := raw.(*Document)
			if !ok {
				return nil, fmt.Errorf("%w: choice must be a mapping, got %T", ErrValidation, raw)
			}
			var choice Choice
			if err := applyLangMap(cd, "name", lang, &choice.Name); err != nil {
				return nil, err
			}
			choice.Value, _ = cd.Get("value")
			r.choices = append(r.choices, choice)
		}
	}
	return r, nil
}
