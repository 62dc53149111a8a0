package datapackage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/italia/vocabtools/types"
)

// Load reads a YAML or JSON descriptor
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON descriptor. Values are converted to their
// JSON shapes first so that x-jsonld-context is a plain JSON object.
func Parse(data []byte) (*Package, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaValidationError{Messages: []string{err.Error()}}
	}

	normalized, err := json.Marshal(types.Normalize(raw))
	if err != nil {
		return nil, err
	}
	pkg := &Package{}
	if err := json.Unmarshal(normalized, pkg); err != nil {
		return nil, &SchemaValidationError{Messages: []string{err.Error()}}
	}
	return pkg, nil
}

// Save writes the descriptor as YAML
func Save(path string, pkg *Package) error {
	var buf bytes.Buffer
	if err := types.EncodeYAML(&buf, pkg); err != nil {
		return fmt.Errorf("encoding descriptor: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
