package projector

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/italia/vocabtools/types"
)

// ErrOutsideBase is returned when a record identifier is not under the
// base URI of the key field.
var ErrOutsideBase = errors.New("identifier is outside the base URI")

// Callback transforms a framed document in place
type Callback struct {
	Name  string
	Apply func(doc *types.Document) error
}

// FieldsOf returns the sorted names of the data fields declared by a frame:
// context terms that are neither keywords nor namespace declarations
// (terms mapped to null included), and top-level frame properties that
// declare an @default or are null.
func FieldsOf(frame *types.Frame) []string {
	set := map[string]bool{}
	for key, value := range frame.Context() {
		if !types.IsKeyword(key) && !types.IsNamespace(value) {
			set[key] = true
		}
	}
	for key, value := range frame.Properties() {
		switch v := value.(type) {
		case nil:
			set[key] = true
		case map[string]interface{}:
			if _, has := v["@default"]; has {
				set[key] = true
			}
		}
	}

	fields := make([]string, 0, len(set))
	for field := range set {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Project removes from every record the keys that are not in fields.
// @type is always kept. Projecting twice is the same as projecting once.
func Project(doc *types.Document, fields []string) {
	keep := make(map[string]bool, len(fields)+1)
	for _, field := range fields {
		keep[field] = true
	}
	keep["@type"] = true

	for _, record := range doc.Graph {
		for key := range record {
			if !keep[key] {
				delete(record, key)
			}
		}
	}
}

// SelectFields returns a Callback projecting a document on the fields
// of frame.
func SelectFields(frame *types.Frame) Callback {
	fields := FieldsOf(frame)
	return Callback{
		Name: "select_fields",
		Apply: func(doc *types.Document) error {
			Project(doc, fields)
			return nil
		},
	}
}

// AddKeyField returns a Callback that stores in the key field the part of
// each record identifier following baseURI. The key term is detached in
// the context so it never produces triples.
func AddKeyField(baseURI string) Callback {
	return Callback{
		Name: "update_frame_with_key_field",
		Apply: func(doc *types.Document) error {
			idField := types.IDField(doc.Context)
			for i, record := range doc.Graph {
				id := record.ID(idField)
				if !strings.HasPrefix(id, baseURI) {
					return fmt.Errorf("%w: record %d: %q does not start with %q", ErrOutsideBase, i, id, baseURI)
				}
				record[types.KeyField] = strings.TrimPrefix(id, baseURI)
			}
			if doc.Context == nil {
				doc.Context = map[string]interface{}{}
			}
			doc.Context[types.KeyField] = nil
			return nil
		},
	}
}
