package vocabulary

import (
	"fmt"
	"log/slog"
	"sync"

	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/loader"
	"github.com/italia/vocabtools/projector"
	"github.com/italia/vocabtools/types"
)

// Options configure a Vocabulary
type Options struct {
	Logger    *slog.Logger
	Languages []string
	Loader    ld.DocumentLoader
}

// A Vocabulary is a parsed controlled vocabulary. Its metadata is
// computed once and shared by concurrent callers.
type Vocabulary struct {
	graph  *graph.Graph
	logger *slog.Logger
	langs  []string
	opts   *ld.JsonLdOptions

	once     sync.Once
	metadata *Metadata
	err      error
}

// New wraps a graph. A nil opts uses the defaults.
func New(g *graph.Graph, opts *Options) *Vocabulary {
	if opts == nil {
		opts = &Options{}
	}
	v := &Vocabulary{graph: g, logger: opts.Logger, langs: opts.Languages}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	dl := opts.Loader
	if dl == nil {
		dl = loader.NewOfflineDocumentLoader()
	}
	v.opts = graph.DatasetOptions(dl)
	return v
}

// Load parses a Turtle file
func Load(path string, opts *Options) (*Vocabulary, error) {
	g, err := graph.ParseTurtleFile(path)
	if err != nil {
		return nil, err
	}
	v := New(g, opts)
	v.logger.Debug("vocabulary loaded", slog.String("path", path), slog.Int("triples", g.Len()))
	return v, nil
}

// Graph returns the triples of the vocabulary
func (v *Vocabulary) Graph() *graph.Graph { return v.graph }

// Options returns the JSON-LD options used by the vocabulary
func (v *Vocabulary) Options() *ld.JsonLdOptions { return v.opts }

// Metadata returns the description of the concept scheme
func (v *Vocabulary) Metadata() (*Metadata, error) {
	v.once.Do(func() {
		v.metadata, v.err = NewMetadata(v.graph, v.langs)
	})
	return v.metadata, v.err
}

// URI returns the IRI of the concept scheme
func (v *Vocabulary) URI() (string, error) {
	metadata, err := v.Metadata()
	if err != nil {
		return "", err
	}
	return metadata.URI(), nil
}

// CheckURI returns ErrUnknownVocabulary unless uri is a subject of the
// vocabulary graph.
func (v *Vocabulary) CheckURI(uri string) error {
	if !v.graph.HasSubject(uri) {
		return fmt.Errorf("%w: %s", ErrUnknownVocabulary, uri)
	}
	v.logger.Debug("vocabulary URI found", slog.String("uri", uri))
	return nil
}

// JSONLD returns the vocabulary as expanded JSON-LD node objects
func (v *Vocabulary) JSONLD() ([]interface{}, error) {
	return v.graph.JSONLD(v.opts)
}

// Project frames the vocabulary and applies the callbacks in order
func (v *Vocabulary) Project(frame *types.Frame, batchSize int, callbacks ...projector.Callback) (*types.Document, error) {
	items, err := v.JSONLD()
	if err != nil {
		return nil, err
	}

	doc, err := projector.NewFramer(v.opts, v.logger).Frame(frame, items, batchSize)
	if err != nil {
		return nil, err
	}

	for _, callback := range callbacks {
		v.logger.Info("applying callback", slog.String("callback", callback.Name))
		if err := callback.Apply(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
