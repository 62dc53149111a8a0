package types

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeDocument reads a YAML or JSON serialized JSON-LD document
func DecodeDocument(r io.Reader) (*Document, error) {
	var m map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	m, _ = Normalize(m).(map[string]interface{})
	return DocumentFromMap(m)
}

// ReadDocument reads a .yamlld (or .jsonld) file
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}

// EncodeYAML writes v as YAML with two-space indentation
func EncodeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteDocument writes the document, statistics included, as YAML
func WriteDocument(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, doc.Map()); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
