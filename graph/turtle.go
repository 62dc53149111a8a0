package graph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	rdf "github.com/knakk/rdf"
	ld "github.com/piprate/json-gold/ld"
)

// ErrParseTurtle indicates that a Turtle document could not be decoded
var ErrParseTurtle = errors.New("error parsing Turtle")

// ParseTurtle decodes a Turtle document into a graph
func ParseTurtle(r io.Reader) (*Graph, error) {
	g := New()
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseTurtle, err)
		}
		subject, predicate, object := termToNode(triple.Subj), termToNode(triple.Pred), termToNode(triple.Obj)
		if subject == nil || predicate == nil || object == nil {
			return nil, fmt.Errorf("%w: unsupported term in %s", ErrParseTurtle, triple.Serialize(rdf.NTriples))
		}
		g.Add(subject, predicate, object)
	}
	return g, nil
}

// ParseTurtleFile reads and decodes a Turtle file
func ParseTurtleFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := ParseTurtle(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func termToNode(term rdf.Term) ld.Node {
	switch t := term.(type) {
	case rdf.IRI:
		return ld.NewIRI(t.String())
	case rdf.Blank:
		return ld.NewBlankNode("_:" + strings.TrimPrefix(t.String(), "_:"))
	case rdf.Literal:
		if lang := t.Lang(); lang != "" {
			return ld.NewLiteral(t.String(), ld.RDFLangString, lang)
		}
		datatype := t.DataType.String()
		if datatype == "" {
			datatype = ld.XSDString
		}
		return ld.NewLiteral(t.String(), datatype, "")
	}
	return nil
}
