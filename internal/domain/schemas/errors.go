package schemas

import "errors"

// Sentinel errors returned by constructors, presets and loaders. Callers
// match them with errors.Is.
var (
	// ErrValidation indicates a field value of the wrong type, a type tag
	// outside the supported set, or a loaded document without an @type key.
	ErrValidation = errors.New("schema validation failed")

	// ErrTypeMismatch indicates loaded data whose @type does not match the
	// expected variant.
	ErrTypeMismatch = errors.New("schema type mismatch")

	// ErrConfig indicates a preset invoked with an unusable configuration,
	// such as a choice-based input type without choices.
	ErrConfig = errors.New("invalid schema configuration")
)
