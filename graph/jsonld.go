package graph

import (
	"errors"
	"fmt"

	ld "github.com/piprate/json-gold/ld"
)

// ErrNotDataset indicates the JSON-LD processor returned something other
// than an *ld.RDFDataset
var ErrNotDataset = errors.New("JSON-LD conversion did not produce a dataset")

// FromJSONLD converts a JSON-LD document into a graph
func FromJSONLD(document interface{}, opts *ld.JsonLdOptions) (*Graph, error) {
	proc := ld.NewJsonLdProcessor()
	// ToRDF returns a dataset only when no output format is requested
	options := *opts
	options.Format = ""
	rdf, err := proc.ToRDF(document, &options)
	if err != nil {
		return nil, fmt.Errorf("converting JSON-LD to RDF: %w", err)
	}
	dataset, isDataset := rdf.(*ld.RDFDataset)
	if !isDataset {
		return nil, ErrNotDataset
	}
	return FromDataset(dataset), nil
}

// JSONLD serializes the graph as a list of expanded JSON-LD node objects
func (g *Graph) JSONLD(opts *ld.JsonLdOptions) ([]interface{}, error) {
	api := ld.NewJsonLdApi()
	result, err := api.FromRDF(g.Dataset(), opts)
	if err != nil {
		return nil, fmt.Errorf("converting RDF to JSON-LD: %w", err)
	}
	return result, nil
}

// Canonical returns the URDNA2015 canonical N-Quads serialization
func (g *Graph) Canonical(opts *ld.JsonLdOptions) (string, error) {
	api := ld.NewJsonLdApi()
	normalized, err := api.Normalize(g.Dataset(), opts)
	if err != nil {
		return "", err
	}
	s, is := normalized.(string)
	if !is {
		return "", ErrNotDataset
	}
	return s, nil
}

// Isomorphic reports whether two graphs have the same canonical form
func Isomorphic(a, b *Graph, opts *ld.JsonLdOptions) (bool, error) {
	if a.Len() != b.Len() {
		return false, nil
	}
	ca, err := a.Canonical(opts)
	if err != nil {
		return false, err
	}
	cb, err := b.Canonical(opts)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}
