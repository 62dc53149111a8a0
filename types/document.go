package types

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument indicates that a JSON-LD document has no usable @graph
var ErrInvalidDocument = errors.New("invalid JSON-LD document")

// Statistics summarizes a framing run
type Statistics struct {
	SourceItems int      `json:"source_items" yaml:"source_items"`
	FramedItems int      `json:"framed_items" yaml:"framed_items"`
	Batches     int      `json:"batches" yaml:"batches"`
	Filtered    []string `json:"filtered" yaml:"filtered"`
}

// Merge adds the counters of another batch to s
func (s *Statistics) Merge(batch Statistics) {
	s.SourceItems += batch.SourceItems
	s.FramedItems += batch.FramedItems
	s.Batches += batch.Batches
	s.Filtered = append(s.Filtered, batch.Filtered...)
}

// Record is a single framed entity. Its keys are either JSON-LD keywords
// or terms declared by the frame context.
type Record map[string]interface{}

// ID returns the identifier of the record, read from idField
func (r Record) ID(idField string) string {
	if id, is := r[idField].(string); is {
		return id
	}
	return ""
}

// Kind classifies the values a record can carry
type Kind uint8

// Value kinds
const (
	Null Kind = iota
	Scalar
	List
	Nested
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Nested:
		return "nested"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOf returns the kind of a decoded JSON-LD value
func KindOf(value interface{}) Kind {
	switch value.(type) {
	case nil:
		return Null
	case []interface{}:
		return List
	case map[string]interface{}, Record:
		return Nested
	default:
		return Scalar
	}
}

// Document is a framed JSON-LD document
type Document struct {
	Context    map[string]interface{}
	Graph      []Record
	Statistics *Statistics
}

// JSONLD returns the document as a plain JSON-LD object with only
// @context and @graph.
func (d *Document) JSONLD() map[string]interface{} {
	graph := make([]interface{}, len(d.Graph))
	for i, record := range d.Graph {
		graph[i] = map[string]interface{}(record)
	}
	return map[string]interface{}{
		"@context": d.Context,
		"@graph":   graph,
	}
}

// Map returns the serializable form of the document, statistics included
func (d *Document) Map() map[string]interface{} {
	m := d.JSONLD()
	if d.Statistics != nil {
		m["statistics"] = d.Statistics
	}
	return m
}

// DocumentFromMap builds a Document from decoded JSON or YAML.
// A document without @graph is read as a single record.
func DocumentFromMap(m map[string]interface{}) (*Document, error) {
	doc := &Document{Context: map[string]interface{}{}}
	if context, has := m["@context"]; has {
		ctx, is := context.(map[string]interface{})
		if !is {
			return nil, fmt.Errorf("%w: @context is not an object", ErrInvalidDocument)
		}
		doc.Context = ctx
	}

	graph, has := m["@graph"]
	if !has {
		record := Record{}
		for key, value := range m {
			if key != "@context" && key != "statistics" {
				record[key] = value
			}
		}
		if len(record) > 0 {
			doc.Graph = []Record{record}
		}
		return doc, nil
	}

	items, is := graph.([]interface{})
	if !is {
		return nil, fmt.Errorf("%w: @graph is not a list", ErrInvalidDocument)
	}
	doc.Graph = make([]Record, 0, len(items))
	for i, item := range items {
		record, is := item.(map[string]interface{})
		if !is {
			return nil, fmt.Errorf("%w: @graph item %d is not an object", ErrInvalidDocument, i)
		}
		doc.Graph = append(doc.Graph, record)
	}

	if stats, is := m["statistics"].(map[string]interface{}); is {
		doc.Statistics = statisticsFromMap(stats)
	}
	return doc, nil
}

func statisticsFromMap(m map[string]interface{}) *Statistics {
	stats := &Statistics{}
	count := func(key string) int {
		if n, is := m[key].(float64); is {
			return int(n)
		}
		return 0
	}
	stats.SourceItems = count("source_items")
	stats.FramedItems = count("framed_items")
	stats.Batches = count("batches")
	if filtered, is := m["filtered"].([]interface{}); is {
		for _, f := range filtered {
			if s, is := f.(string); is {
				stats.Filtered = append(stats.Filtered, s)
			}
		}
	}
	return stats
}
