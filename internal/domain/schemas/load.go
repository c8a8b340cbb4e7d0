package schemas

import "fmt"

// Entity is the capability shared by every loadable schema document.
type Entity interface {
	Type() Type
	Document() *Document
}

// FromFile reads a JSON document from path and parses it into the variant
// named by its @type tag. Documents without an @type key fail with
// ErrValidation; unknown tags fail with ErrValidation as well.
func FromFile(path string) (Entity, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	raw, _ := doc.Get("@type")
	tag, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: @type must be a string, got %T", ErrValidation, raw)
	}
	switch Type(tag) {
	case TypeProtocol:
		return ProtocolFromDocument(doc)
	case TypeActivity:
		return ActivityFromDocument(doc)
	case TypeField:
		return ItemFromDocument(doc)
	case TypeResponseOption:
		return ResponseOptionFromDocument(doc, DefaultLanguage)
	}
	return nil, fmt.Errorf("%w: unsupported type tag %q", ErrValidation, tag)
}
