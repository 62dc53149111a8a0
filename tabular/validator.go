package tabular

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/loader"
	"github.com/italia/vocabtools/types"
)

// ValidatorOptions configure a Validator
type ValidatorOptions struct {
	Logger *slog.Logger
	Loader ld.DocumentLoader
	// NewIndex opens the index used for the subset check; nil means
	// graph.NewMemoryIndex
	NewIndex func() (graph.Index, error)
}

// ValidationStats counts the triples involved in a roundtrip check
type ValidationStats struct {
	CSVRows         int `json:"csv_rows" yaml:"csv_rows"`
	CSVTriples      int `json:"csv_triples" yaml:"csv_triples"`
	OriginalTriples int `json:"original_triples" yaml:"original_triples"`
	ExtraTriples    int `json:"extra_triples" yaml:"extra_triples"`
}

// Validator checks that the CSV of a data package, read back through its
// JSON-LD context, only states triples of the vocabulary it came from.
type Validator struct {
	pkg      *datapackage.Package
	basepath string
	logger   *slog.Logger
	opts     *ld.JsonLdOptions
	newIndex func() (graph.Index, error)

	loaded bool
	ctx    map[string]interface{}
	rows   []Row
}

// NewValidator returns a validator for pkg, whose resource paths are
// relative to basepath.
func NewValidator(pkg *datapackage.Package, basepath string, opts *ValidatorOptions) *Validator {
	if opts == nil {
		opts = &ValidatorOptions{}
	}
	v := &Validator{pkg: pkg, basepath: basepath, logger: opts.Logger, newIndex: opts.NewIndex}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.newIndex == nil {
		v.newIndex = func() (graph.Index, error) { return graph.NewMemoryIndex(), nil }
	}
	dl := opts.Loader
	if dl == nil {
		dl = loader.NewOfflineDocumentLoader()
	}
	v.opts = graph.DatasetOptions(dl)
	return v
}

// LoadValidator reads the descriptor at path and returns its validator
func LoadValidator(path string, opts *ValidatorOptions) (*Validator, error) {
	pkg, err := datapackage.Load(path)
	if err != nil {
		return nil, err
	}
	return NewValidator(pkg, filepath.Dir(path), opts), nil
}

// Package returns the descriptor
func (v *Validator) Package() *datapackage.Package { return v.pkg }

// CheckDescriptor validates the descriptor and returns its only resource
// with the resource JSON-LD context. No data is read.
func (v *Validator) CheckDescriptor() (datapackage.Resource, map[string]interface{}, error) {
	if err := datapackage.Validate(v.pkg); err != nil {
		return datapackage.Resource{}, nil, err
	}
	if len(v.pkg.Resources) != 1 {
		return datapackage.Resource{}, nil, fmt.Errorf("%w: found %d", ErrResourceCount, len(v.pkg.Resources))
	}

	resource := v.pkg.Resources[0]
	if resource.Schema == nil {
		return resource, nil, &MissingContextError{Resource: resource.Name}
	}
	ctx, is := resource.Schema.Context()
	if !is {
		return resource, nil, &MissingContextError{Resource: resource.Name}
	}
	return resource, ctx, nil
}

// Load validates the descriptor and reads the rows of its only resource
func (v *Validator) Load() error {
	resource, ctx, err := v.CheckDescriptor()
	if err != nil {
		return err
	}

	rows, err := ReadRows(resource, v.basepath)
	if invalid, is := err.(*datapackage.SchemaValidationError); is {
		messages := make([]string, len(invalid.Messages))
		for i, message := range invalid.Messages {
			messages[i] = fmt.Sprintf("resource %q: %s", resource.Name, message)
		}
		return &datapackage.SchemaValidationError{Messages: messages}
	} else if err != nil {
		return err
	}

	v.ctx, v.rows, v.loaded = ctx, rows, true
	v.logger.Debug("data package loaded",
		slog.String("resource", resource.Name),
		slog.Int("rows", len(rows)))
	return nil
}

// Context returns the JSON-LD context of the resource
func (v *Validator) Context() (map[string]interface{}, error) {
	if !v.loaded {
		return nil, ErrNotLoaded
	}
	return types.CopyMap(v.ctx), nil
}

// Rows returns the typed rows of the resource
func (v *Validator) Rows() ([]Row, error) {
	if !v.loaded {
		return nil, ErrNotLoaded
	}
	return v.rows, nil
}

// ToJSONLD returns the rows as the @graph of a document using the
// resource context.
func (v *Validator) ToJSONLD() (map[string]interface{}, error) {
	if !v.loaded {
		return nil, ErrNotLoaded
	}
	items := make([]interface{}, len(v.rows))
	for i, row := range v.rows {
		items[i] = types.CopyMap(row)
	}
	return map[string]interface{}{
		"@context": types.CopyMap(v.ctx),
		"@graph":   items,
	}, nil
}

// ToGraph converts the rows to triples. Relative identifiers resolve
// against a fresh urn:uuid: base.
func (v *Validator) ToGraph() (*graph.Graph, error) {
	doc, err := v.ToJSONLD()
	if err != nil {
		return nil, err
	}
	opts := *v.opts
	opts.Base = "urn:uuid:" + uuid.NewString() + "/"
	return graph.FromJSONLD(doc, &opts)
}

// Validate checks that the CSV yields at least minTriples triples and
// that all of them belong to original.
func (v *Validator) Validate(original *graph.Graph, minTriples int) (*ValidationStats, error) {
	g, err := v.ToGraph()
	if err != nil {
		return nil, err
	}
	stats := &ValidationStats{
		CSVRows:         len(v.rows),
		CSVTriples:      g.Len(),
		OriginalTriples: original.Len(),
	}
	if stats.CSVTriples < minTriples {
		return stats, &InsufficientDataError{Triples: stats.CSVTriples, Min: minTriples}
	}

	idx, err := v.newIndex()
	if err != nil {
		return stats, err
	}
	defer idx.Close()

	diff, err := graph.Subtract(g, original, idx)
	if err != nil {
		return stats, err
	}
	stats.ExtraTriples = diff.Len()
	v.logger.Info("roundtrip checked",
		slog.Int("csv_rows", stats.CSVRows),
		slog.Int("csv_triples", stats.CSVTriples),
		slog.Int("original_triples", stats.OriginalTriples),
		slog.Int("extra_triples", stats.ExtraTriples))
	return stats, graph.Violation(diff)
}
