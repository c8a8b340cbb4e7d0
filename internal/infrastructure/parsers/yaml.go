package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses definitions from YAML format.
type YAMLParser struct{}

// Parse reads YAML from the reader and returns the parsed definition.
func (p *YAMLParser) Parse(r io.Reader) (*Definition, error) {
	var def Definition

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// validate checks the structural constraints shared by both formats.
func validate(def *Definition) error {
	if def.Protocol.Name == "" {
		return errors.New("definition is missing the protocol name")
	}
	for _, activity := range def.Protocol.Activities {
		if activity.Name == "" {
			return errors.New("definition contains an activity without a name")
		}
		for _, item := range activity.Items {
			if item.Name == "" {
				return fmt.Errorf("activity %q contains an item without a name", activity.Name)
			}
		}
	}
	return nil
}
