package datapackage

import "errors"

// ErrNotImplemented marks descriptor features that are not supported yet
var ErrNotImplemented = errors.New("not implemented")

// Field types of a Frictionless table schema
const (
	TypeString    = "string"
	TypeInteger   = "integer"
	TypeNumber    = "number"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeDateTime  = "datetime"
	TypeTime      = "time"
	TypeYear      = "year"
	TypeYearMonth = "yearmonth"
	TypeDuration  = "duration"
)

// Constant properties of the CSV resources generated from vocabularies
const (
	ResourceType      = "table"
	ResourceScheme    = "file"
	ResourceFormat    = "csv"
	ResourceMediaType = "text/csv"
	ResourceEncoding  = "utf-8"
)

// A Package is a Frictionless data package descriptor
// (https://datapackage.org/standard/data-package/). Profile is the $schema
// the descriptor conforms to and Name the key concept of the vocabulary.
type Package struct {
	Profile     string     `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Name        string     `json:"name" yaml:"name"`
	ID          string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string     `json:"title,omitempty" yaml:"title,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string     `json:"version,omitempty" yaml:"version,omitempty"`
	Homepage    string     `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Created     string     `json:"created,omitempty" yaml:"created,omitempty"`
	Keywords    []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Licenses    []License  `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	Resources   []Resource `json:"resources" yaml:"resources"`
}

// A License under which the vocabulary is published
type License struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// A Resource describes one file of the package
// (https://datapackage.org/standard/data-resource/). Path is relative to
// the descriptor directory.
type Resource struct {
	Name      string   `json:"name" yaml:"name"`
	Path      string   `json:"path" yaml:"path"`
	Type      string   `json:"type,omitempty" yaml:"type,omitempty"`
	Scheme    string   `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`
	MediaType string   `json:"mediatype,omitempty" yaml:"mediatype,omitempty"`
	Encoding  string   `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Dialect   *Dialect `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Schema    *Schema  `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// NewResource returns a CSV table resource
func NewResource(name, path string, schema *Schema, dialect *Dialect) Resource {
	return Resource{
		Name:      name,
		Path:      path,
		Type:      ResourceType,
		Scheme:    ResourceScheme,
		Format:    ResourceFormat,
		MediaType: ResourceMediaType,
		Encoding:  ResourceEncoding,
		Dialect:   dialect,
		Schema:    schema,
	}
}

// A Schema is a Frictionless table schema extended with the JSON-LD
// context that turns its rows back into RDF. JSONLDContext should hold a
// JSON object; it is untyped so that malformed descriptors still load.
type Schema struct {
	Fields        []Field     `json:"fields" yaml:"fields"`
	JSONLDContext interface{} `json:"x-jsonld-context,omitempty" yaml:"x-jsonld-context,omitempty"`
}

// FieldNames returns the field names in order
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		names[i] = field.Name
	}
	return names
}

// Field returns the field with the given name
func (s *Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Context returns x-jsonld-context when it is a JSON object
func (s *Schema) Context() (map[string]interface{}, bool) {
	ctx, is := s.JSONLDContext.(map[string]interface{})
	return ctx, is
}

// A Field is a typed column
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}
