package projector

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/loader"
	"github.com/italia/vocabtools/types"
)

// ErrNegativeBatchSize is returned for batch sizes below zero
var ErrNegativeBatchSize = errors.New("batch size must not be negative")

// TypedVocabularyError reports framed records whose vocab property is an
// embedded, typed node instead of a reference to the concept scheme.
type TypedVocabularyError struct {
	Records []string
}

func (e *TypedVocabularyError) Error() string {
	return fmt.Sprintf("%d framed record(s) carry a typed %q value: %s",
		len(e.Records), types.VocabField, strings.Join(e.Records, ", "))
}

// Framer applies a JSON-LD frame to the node objects of a vocabulary
type Framer struct {
	Options *ld.JsonLdOptions
	Logger  *slog.Logger
}

// NewFramer returns a Framer. Nil options resolve contexts offline and
// a nil logger means slog.Default().
func NewFramer(opts *ld.JsonLdOptions, logger *slog.Logger) *Framer {
	if opts == nil {
		opts = graph.DatasetOptions(loader.NewOfflineDocumentLoader())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Framer{Options: opts, Logger: logger}
}

// Frame frames items in fixed-size batches (one batch when batchSize is
// zero) and concatenates the results. References between entities of
// different batches are never embedded.
func (f *Framer) Frame(frame *types.Frame, items []interface{}, batchSize int) (*types.Document, error) {
	if batchSize < 0 {
		return nil, ErrNegativeBatchSize
	}
	if batchSize == 0 {
		batchSize = len(items)
	}

	doc := &types.Document{
		Context:    types.CopyMap(frame.Context()),
		Graph:      []types.Record{},
		Statistics: &types.Statistics{Filtered: []string{}},
	}

	idField := frame.IDField()
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		began := time.Now()
		records, stats, err := f.frameBatch(frame, idField, items[start:end])
		if err != nil {
			return nil, fmt.Errorf("framing items %d-%d: %w", start, end-1, err)
		}
		f.Logger.Debug("framed batch",
			slog.Int("start", start),
			slog.Int("items", stats.SourceItems),
			slog.Int("framed", stats.FramedItems),
			slog.Duration("elapsed", time.Since(began)))

		doc.Graph = append(doc.Graph, records...)
		doc.Statistics.Merge(stats)
	}

	f.Logger.Info("framing completed",
		slog.Int("source_items", doc.Statistics.SourceItems),
		slog.Int("framed_items", doc.Statistics.FramedItems),
		slog.Int("filtered", len(doc.Statistics.Filtered)),
		slog.Int("batches", doc.Statistics.Batches))
	return doc, nil
}

func (f *Framer) frameBatch(frame *types.Frame, idField string, batch []interface{}) ([]types.Record, types.Statistics, error) {
	stats := types.Statistics{SourceItems: len(batch), Batches: 1}

	proc := ld.NewJsonLdProcessor()
	options := *f.Options
	options.ProcessingMode = ld.JsonLd_1_1
	options.Format = ""

	input := map[string]interface{}{
		"@context": types.CopyMap(frame.Context()),
		"@graph":   batch,
	}
	framed, err := proc.Frame(input, frame.Body(), &options)
	if err != nil {
		return nil, stats, err
	}

	records := graphOf(framed)
	if err := CheckUntypedVocab(records, idField); err != nil {
		return nil, stats, err
	}
	stats.FramedItems = len(records)
	stats.Filtered = missing(batch, records, idField)
	return records, stats, nil
}

// graphOf returns the records of a framed document, which has no @graph
// when the frame matched a single entity.
func graphOf(framed map[string]interface{}) []types.Record {
	if g, has := framed["@graph"]; has {
		items, _ := g.([]interface{})
		records := make([]types.Record, 0, len(items))
		for _, item := range items {
			if record, is := item.(map[string]interface{}); is {
				records = append(records, record)
			}
		}
		return records
	}

	record := types.Record{}
	for key, value := range framed {
		if key != "@context" {
			record[key] = value
		}
	}
	if len(record) == 0 {
		return []types.Record{}
	}
	return []types.Record{record}
}

// CheckUntypedVocab fails when a record's vocab value is a typed node
func CheckUntypedVocab(records []types.Record, idField string) error {
	var offending []string
	for i, record := range records {
		if typedValue(record[types.VocabField]) {
			id := record.ID(idField)
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return &TypedVocabularyError{Records: offending}
	}
	return nil
}

func typedValue(value interface{}) bool {
	switch v := value.(type) {
	case map[string]interface{}:
		_, has := v["@type"]
		return has
	case []interface{}:
		for _, item := range v {
			if typedValue(item) {
				return true
			}
		}
	}
	return false
}

// missing returns the local names of the batch items absent from records
func missing(batch []interface{}, records []types.Record, idField string) []string {
	framed := make(map[string]bool, len(records))
	for _, record := range records {
		framed[types.LocalName(record.ID(idField))] = true
	}

	filtered := []string{}
	for _, item := range batch {
		node, is := item.(map[string]interface{})
		if !is {
			continue
		}
		id, _ := node["@id"].(string)
		if name := types.LocalName(id); !framed[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered
}
