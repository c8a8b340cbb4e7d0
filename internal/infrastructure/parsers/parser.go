// Package parsers provides parsers for protocol definition files, the
// compact YAML/JSON format the create command compiles into schema
// documents.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// Definition is the root of a parsed definition file.
type Definition struct {
	Protocol ProtocolDef `yaml:"protocol" json:"protocol"`
}

// ProtocolDef describes one protocol and its activities.
type ProtocolDef struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Preamble    string        `yaml:"preamble,omitempty" json:"preamble,omitempty"`
	Citation    string        `yaml:"citation,omitempty" json:"citation,omitempty"`
	LandingPage string        `yaml:"landing_page,omitempty" json:"landing_page,omitempty"`
	Activities  []ActivityDef `yaml:"activities,omitempty" json:"activities,omitempty"`
}

// ActivityDef describes one activity and its items.
type ActivityDef struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Preamble    string    `yaml:"preamble,omitempty" json:"preamble,omitempty"`
	Citation    string    `yaml:"citation,omitempty" json:"citation,omitempty"`
	Items       []ItemDef `yaml:"items,omitempty" json:"items,omitempty"`
}

// ItemDef describes one item. InputType selects a preset; choice-based
// presets read the Choices list.
type ItemDef struct {
	Name           string      `yaml:"name" json:"name"`
	Question       string      `yaml:"question,omitempty" json:"question,omitempty"`
	InputType      string      `yaml:"input_type,omitempty" json:"input_type,omitempty"`
	MaxLength      int         `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Required       bool        `yaml:"required,omitempty" json:"required,omitempty"`
	ReadOnly       bool        `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	MultipleChoice bool        `yaml:"multiple_choice,omitempty" json:"multiple_choice,omitempty"`
	DeriveBounds   bool        `yaml:"derive_bounds,omitempty" json:"derive_bounds,omitempty"`
	Choices        []ChoiceDef `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// ChoiceDef is one selectable option of a choice-based item.
type ChoiceDef struct {
	Label string `yaml:"label" json:"label"`
	Value any    `yaml:"value" json:"value"`
}

// Parser defines the interface for parsing definitions from various
// formats.
type Parser interface {
	Parse(r io.Reader) (*Definition, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "yaml", "json".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return &YAMLParser{}
	case "json":
		return &JSONParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return &YAMLParser{}
	case ".json":
		return &JSONParser{}
	default:
		return nil
	}
}
