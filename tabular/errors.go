package tabular

import (
	"errors"
	"fmt"

	"github.com/italia/vocabtools/types"
)

var (
	// ErrNoSchema is returned when writing or reading without a schema
	ErrNoSchema = errors.New("no table schema")
	// ErrColumnMismatch is returned when the columns are not schema fields
	ErrColumnMismatch = errors.New("columns do not match the schema fields")
	// ErrNotLoaded is returned when the validator is used before Load
	ErrNotLoaded = errors.New("data package not loaded")
	// ErrResourceCount is returned for packages without exactly one resource
	ErrResourceCount = errors.New("data package must have exactly one resource")
	// ErrNotTabular is returned when writing before Load
	ErrNotTabular = errors.New("framed document not loaded")
)

// MissingContextError reports a schema without a JSON object in
// x-jsonld-context.
type MissingContextError struct {
	Resource string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("resource %q: schema has no x-jsonld-context object", e.Resource)
}

// InsufficientDataError reports a CSV that produced fewer triples than
// required.
type InsufficientDataError struct {
	Triples int
	Min     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("CSV produced %d triple(s), at least %d required", e.Triples, e.Min)
}

// CellError reports a value that cannot be written in a single CSV cell
type CellError struct {
	Row   int
	Field string
	Kind  types.Kind
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d: field %q: cannot write a %s value in a cell", e.Row, e.Field, e.Kind)
}
