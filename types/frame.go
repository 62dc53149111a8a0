package types

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Frame is a JSON-LD frame. The declaration order of the @context keys
// is kept because it drives the column order of tabular projections.
type Frame struct {
	body  map[string]interface{}
	order []string
}

// NewFrame wraps a decoded frame. When order is nil the context keys are
// taken in lexical order.
func NewFrame(body map[string]interface{}, order []string) *Frame {
	f := &Frame{body: body}
	if f.body == nil {
		f.body = map[string]interface{}{}
	}
	context := f.Context()
	for _, key := range order {
		if _, has := context[key]; has {
			f.order = append(f.order, key)
		}
	}
	if len(f.order) != len(context) {
		seen := make(map[string]bool, len(f.order))
		for _, key := range f.order {
			seen[key] = true
		}
		rest := []string{}
		for key := range context {
			if !seen[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		f.order = append(f.order, rest...)
	}
	return f
}

// Context returns the frame @context. Array contexts are merged in order;
// string entries (remote contexts) are not part of the returned map.
func (f *Frame) Context() map[string]interface{} {
	switch ctx := f.body["@context"].(type) {
	case map[string]interface{}:
		return ctx
	case []interface{}:
		merged := map[string]interface{}{}
		for _, item := range ctx {
			if m, is := item.(map[string]interface{}); is {
				for key, value := range m {
					merged[key] = value
				}
			}
		}
		return merged
	}
	return map[string]interface{}{}
}

// ContextOrder returns the @context keys in declaration order
func (f *Frame) ContextOrder() []string {
	return append([]string(nil), f.order...)
}

// Body returns a deep copy of the whole frame, suitable for handing to
// the JSON-LD processor.
func (f *Frame) Body() map[string]interface{} {
	return CopyMap(f.body)
}

// Properties returns the top-level non-keyword entries of the frame
func (f *Frame) Properties() map[string]interface{} {
	properties := map[string]interface{}{}
	for key, value := range f.body {
		if !IsKeyword(key) {
			properties[key] = value
		}
	}
	return properties
}

// IDField returns the context term aliased to @id, or "@id"
func (f *Frame) IDField() string {
	return IDField(f.Context())
}

// IDField returns the term of ctx aliased to @id, or "@id" when none is
func IDField(ctx map[string]interface{}) string {
	terms := []string{}
	for key, value := range ctx {
		if value == "@id" {
			terms = append(terms, key)
		}
	}
	if len(terms) == 0 {
		return "@id"
	}
	sort.Strings(terms)
	return terms[0]
}

// ParseFrame decodes a YAML or JSON frame
func ParseFrame(data []byte) (*Frame, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing frame: %w", err)
	}

	var body map[string]interface{}
	if err := node.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	body, _ = Normalize(body).(map[string]interface{})

	return NewFrame(body, contextOrder(&node)), nil
}

// ReadFrame reads a frame from a YAML or JSON file
func ReadFrame(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFrame(data)
}

func contextOrder(node *yaml.Node) []string {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "@context" {
			continue
		}
		context := node.Content[i+1]
		if context.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(context.Content)/2)
		for j := 0; j+1 < len(context.Content); j += 2 {
			order = append(order, context.Content[j].Value)
		}
		return order
	}
	return nil
}
