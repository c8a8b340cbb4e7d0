package schemas

import "fmt"

// LangMap maps a language code to localized text. Key order is irrelevant;
// entries marshal alphabetically which keeps output deterministic.
type LangMap map[string]string

// Copy returns a shallow copy, or nil for a nil map.
func (m LangMap) Copy() LangMap {
	if m == nil {
		return nil
	}
	out := make(LangMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// asLangMap converts a decoded JSON value into a LangMap. Plain strings are
// accepted for compatibility with older documents and keyed by defaultLang.
func asLangMap(v any, defaultLang string) (LangMap, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return LangMap{defaultLang: val}, nil
	case LangMap:
		return val.Copy(), nil
	case map[string]string:
		return LangMap(val).Copy(), nil
	case *Document:
		out := make(LangMap, val.Len())
		for _, lang := range val.Keys() {
			raw, _ := val.Get(lang)
			text, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: language %q maps to %T, want string", ErrValidation, lang, raw)
			}
			out[lang] = text
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as localized text", ErrValidation, v)
}
