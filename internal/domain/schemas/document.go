package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a JSON object that remembers the order in which keys were
// inserted. encoding/json maps marshal alphabetically, which would destroy
// the canonical key order the schema format requires, so documents carry
// their own key list.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores a value under key. A new key is appended to the order; an
// existing key keeps its position.
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Delete removes key from the document. Missing keys are a no-op.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// Reorder returns a new document containing, for every key in order that is
// present in d, that key in the given order. Keys of d absent from order are
// dropped; keys in order absent from d are skipped. Empty inputs yield an
// empty document.
func (d *Document) Reorder(order []string) *Document {
	out := NewDocument()
	for _, key := range order {
		if v, ok := d.values[key]; ok {
			out.Set(key, v)
		}
	}
	return out
}

// Prune returns a new document without empty values: nil, empty strings,
// empty maps, empty slices and empty nested documents. Nested documents are
// pruned first, so a sub-document that ends up empty is dropped as well.
func (d *Document) Prune() *Document {
	out := NewDocument()
	for _, key := range d.keys {
		v := d.values[key]
		if nested, ok := v.(*Document); ok && nested != nil {
			v = nested.Prune()
		}
		if isEmptyValue(v) {
			continue
		}
		out.Set(key, v)
	}
	return out
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case *Document:
		return val == nil || val.Len() == 0
	case LangMap:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case map[string]string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

// MarshalJSON emits the document's keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshaling key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshaling value for %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving its key order. Nested
// objects become documents, arrays become []any and numbers stay json.Number
// so that re-encoding reproduces the original text.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding document: expected object, got %v", tok)
	}

	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// decodeObject consumes tokens up to and including the matching '}'.
func decodeObject(dec *json.Decoder) (*Document, error) {
	doc := NewDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decoding key: expected string, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		doc.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding object end: %w", err)
	}
	return doc, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	values := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding array end: %w", err)
	}
	return values, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("decoding value: unexpected delimiter %v", delim)
	}
	return tok, nil
}
