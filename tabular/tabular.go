package tabular

import (
	"fmt"
	"log/slog"
	"sort"

	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/loader"
	"github.com/italia/vocabtools/projector"
	"github.com/italia/vocabtools/types"
)

// DefaultIgnore are the predicates never projected to columns
var DefaultIgnore = []string{types.SKOSInScheme, types.SKOSBroader}

// Options configure a Tabular
type Options struct {
	// Ignore lists predicate IRIs excluded from the columns; nil means
	// DefaultIgnore
	Ignore []string
	Loader ld.DocumentLoader
	Logger *slog.Logger
}

// A Row maps column names to cell values
type Row map[string]interface{}

// Tabular is the table projection of a framed document
type Tabular struct {
	doc     *types.Document
	frame   *types.Frame
	ignore  []string
	opts    *ld.JsonLdOptions
	logger  *slog.Logger
	loaded  bool
	columns []string
	rows    []Row
	dialect *datapackage.Dialect
	schema  *datapackage.Schema
}

// New returns the tabular projection of doc. The frame gives the context
// used to name and type the columns; a nil frame uses the document context.
func New(doc *types.Document, frame *types.Frame, opts *Options) *Tabular {
	if opts == nil {
		opts = &Options{}
	}
	if frame == nil {
		frame = types.NewFrame(map[string]interface{}{"@context": doc.Context}, nil)
	}
	t := &Tabular{
		doc:     doc,
		frame:   frame,
		ignore:  opts.Ignore,
		logger:  opts.Logger,
		dialect: datapackage.DefaultDialect(),
	}
	if t.ignore == nil {
		t.ignore = DefaultIgnore
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	dl := opts.Loader
	if dl == nil {
		dl = loader.NewOfflineDocumentLoader()
	}
	t.opts = graph.DatasetOptions(dl)
	return t
}

// Load computes rows and columns. Keywords and terms expanding to an
// ignored predicate are dropped; rows are sorted by id when there is one.
func (t *Tabular) Load() error {
	expanded, err := projector.ExpandContext(t.frame.Context(), t.opts)
	if err != nil {
		return err
	}
	ignored := map[string]bool{}
	for _, iri := range t.ignore {
		ignored[iri] = true
	}

	present := map[string]bool{}
	rows := make([]Row, 0, len(t.doc.Graph))
	for _, record := range t.doc.Graph {
		row := Row{}
		for key, value := range record {
			if types.IsKeyword(key) || ignored[expanded[key]] {
				continue
			}
			row[key] = value
			present[key] = true
		}
		rows = append(rows, row)
	}

	t.columns = t.order(present)
	if present["id"] {
		sort.SliceStable(rows, func(i, j int) bool {
			return lessCell(rows[i]["id"], rows[j]["id"])
		})
	}
	t.rows = rows
	t.loaded = true

	t.logger.Debug("tabular projection loaded",
		slog.Int("rows", len(t.rows)),
		slog.Int("columns", len(t.columns)))
	return nil
}

// order puts the @id alias first, then the context terms in declaration
// order, then any other column alphabetically.
func (t *Tabular) order(present map[string]bool) []string {
	columns := make([]string, 0, len(present))
	seen := map[string]bool{}
	add := func(column string) {
		if present[column] && !seen[column] {
			seen[column] = true
			columns = append(columns, column)
		}
	}

	add(t.frame.IDField())
	for _, term := range t.frame.ContextOrder() {
		add(term)
	}
	rest := []string{}
	for column := range present {
		if !seen[column] {
			rest = append(rest, column)
		}
	}
	sort.Strings(rest)
	columns = append(columns, rest...)
	return columns
}

func lessCell(a, b interface{}) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	na, aIsNumber := a.(float64)
	nb, bIsNumber := b.(float64)
	if aIsNumber && bIsNumber {
		return na < nb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// Columns returns the column names in order
func (t *Tabular) Columns() []string { return t.columns }

// Rows returns the rows
func (t *Tabular) Rows() []Row { return t.rows }

// Context returns the JSON-LD context of the projection
func (t *Tabular) Context() map[string]interface{} { return t.frame.Context() }

// Dialect returns the CSV dialect
func (t *Tabular) Dialect() *datapackage.Dialect { return t.dialect }

// SetDialect replaces the CSV dialect. An unsupported dialect is rejected
// and the previous one is kept.
func (t *Tabular) SetDialect(d *datapackage.Dialect) error {
	if err := d.Validate(); err != nil {
		return err
	}
	t.dialect = d.Resolve()
	return nil
}

// Schema returns the table schema, nil until one is set
func (t *Tabular) Schema() *datapackage.Schema { return t.schema }

// SetSchema assigns a schema whose fields include every column
func (t *Tabular) SetSchema(s *datapackage.Schema) error {
	if s == nil {
		return ErrNoSchema
	}
	fields := map[string]bool{}
	for _, name := range s.FieldNames() {
		fields[name] = true
	}
	var missing []string
	for _, column := range t.columns {
		if !fields[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v not in schema", ErrColumnMismatch, missing)
	}
	t.schema = s
	return nil
}

// InferSchema returns a schema with one typed field per column and the
// frame context as x-jsonld-context.
func (t *Tabular) InferSchema() *datapackage.Schema {
	ctx := t.frame.Context()
	s := &datapackage.Schema{
		Fields:        make([]datapackage.Field, len(t.columns)),
		JSONLDContext: types.CopyMap(ctx),
	}
	for i, column := range t.columns {
		s.Fields[i] = datapackage.Field{Name: column, Type: InferFieldType(column, ctx[column])}
	}
	return s
}
