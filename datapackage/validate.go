package datapackage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed datapackage.schema.json
var descriptorSchema []byte

var (
	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
)

// SchemaValidationError collects the problems found in a descriptor or in
// the data of its resources.
type SchemaValidationError struct {
	Messages []string
}

func (e *SchemaValidationError) Error() string {
	if len(e.Messages) == 1 {
		return "invalid data package: " + e.Messages[0]
	}
	return fmt.Sprintf("invalid data package (%d errors):\n  %s", len(e.Messages), strings.Join(e.Messages, "\n  "))
}

func schema() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		var s jsonschema.Schema
		if err := json.Unmarshal(descriptorSchema, &s); err != nil {
			resolveErr = fmt.Errorf("decoding descriptor schema: %w", err)
			return
		}
		resolved, resolveErr = s.Resolve(&jsonschema.ResolveOptions{})
	})
	return resolved, resolveErr
}

// Validate checks the descriptor against the data package JSON schema
// and the dialect of every resource.
func Validate(pkg *Package) error {
	instance, err := toJSON(pkg)
	if err != nil {
		return err
	}
	if err := ValidateJSON(instance); err != nil {
		return err
	}

	var messages []string
	for _, resource := range pkg.Resources {
		if resource.Dialect == nil {
			continue
		}
		if err := resource.Dialect.Validate(); err != nil {
			messages = append(messages, fmt.Sprintf("resource %q: %v", resource.Name, err))
		}
	}
	if len(messages) > 0 {
		return &SchemaValidationError{Messages: messages}
	}
	return nil
}

// ValidateJSON checks a decoded JSON descriptor against the schema
func ValidateJSON(instance interface{}) error {
	s, err := schema()
	if err != nil {
		return err
	}
	if err := s.Validate(instance); err != nil {
		return &SchemaValidationError{Messages: []string{err.Error()}}
	}
	return nil
}

func toJSON(pkg *Package) (interface{}, error) {
	data, err := json.Marshal(pkg)
	if err != nil {
		return nil, err
	}
	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}
