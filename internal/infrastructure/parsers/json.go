package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses definitions from JSON format.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed definition.
func (p *JSONParser) Parse(r io.Reader) (*Definition, error) {
	var def Definition

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if err := validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}
