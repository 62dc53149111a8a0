package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const blankPlaceholder = "_:b"

// Graph is an ordered set of RDF triples. Statements that differ only
// in their graph label are the same triple.
type Graph struct {
	quads []*ld.Quad
	seen  map[string]struct{}
}

// New returns an empty graph
func New() *Graph {
	return &Graph{seen: map[string]struct{}{}}
}

// FromDataset collects the triples of every graph of the dataset
func FromDataset(dataset *ld.RDFDataset) *Graph {
	g := New()
	if dataset == nil {
		return g
	}
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		names = append(names, name)
	}
	sortGraphNames(names)
	for _, name := range names {
		for _, quad := range dataset.Graphs[name] {
			g.Add(quad.Subject, quad.Predicate, quad.Object)
		}
	}
	return g
}

// Add inserts a triple and reports whether it was new
func (g *Graph) Add(subject, predicate, object ld.Node) bool {
	quad := ld.NewQuad(subject, predicate, object, "")
	key := exactKey(quad)
	if _, has := g.seen[key]; has {
		return false
	}
	g.seen[key] = struct{}{}
	g.quads = append(g.quads, quad)
	return true
}

// Len returns the number of triples
func (g *Graph) Len() int {
	return len(g.quads)
}

// Quads returns the triples in insertion order
func (g *Graph) Quads() []*ld.Quad {
	return g.quads
}

// Dataset returns the graph as the default graph of a dataset
func (g *Graph) Dataset() *ld.RDFDataset {
	dataset := ld.NewRDFDataset()
	dataset.Graphs["@default"] = append([]*ld.Quad(nil), g.quads...)
	return dataset
}

func (g *Graph) hasBlankNodes() bool {
	for _, quad := range g.quads {
		if ld.IsBlankNode(quad.Subject) || ld.IsBlankNode(quad.Object) {
			return true
		}
	}
	return false
}

// Subjects returns the distinct subjects in order of first appearance
func (g *Graph) Subjects() []string {
	seen := map[string]bool{}
	subjects := []string{}
	for _, quad := range g.quads {
		value := quad.Subject.GetValue()
		if !seen[value] {
			seen[value] = true
			subjects = append(subjects, value)
		}
	}
	return subjects
}

// HasSubject reports whether iri is the subject of at least one triple
func (g *Graph) HasSubject(iri string) bool {
	for _, quad := range g.quads {
		if ld.IsIRI(quad.Subject) && quad.Subject.GetValue() == iri {
			return true
		}
	}
	return false
}

// SubjectsWith returns the distinct subjects having the predicate
func (g *Graph) SubjectsWith(predicate string) []string {
	seen := map[string]bool{}
	subjects := []string{}
	for _, quad := range g.quads {
		if quad.Predicate.GetValue() != predicate {
			continue
		}
		value := quad.Subject.GetValue()
		if !seen[value] {
			seen[value] = true
			subjects = append(subjects, value)
		}
	}
	return subjects
}

// Objects returns the objects of the triples matching subject and predicate.
// An empty predicate matches every predicate.
func (g *Graph) Objects(subject, predicate string) []ld.Node {
	objects := []ld.Node{}
	for _, quad := range g.quads {
		if quad.Subject.GetValue() != subject {
			continue
		}
		if predicate != "" && quad.Predicate.GetValue() != predicate {
			continue
		}
		objects = append(objects, quad.Object)
	}
	return objects
}

// Describe returns the sub-graph of the triples having the subject
func (g *Graph) Describe(subject string) *Graph {
	d := New()
	for _, quad := range g.quads {
		if quad.Subject.GetValue() == subject {
			d.Add(quad.Subject, quad.Predicate, quad.Object)
		}
	}
	return d
}

// Keys returns the keys of every triple, see Key
func (g *Graph) Keys() []string {
	labels := g.blankLabels()
	keys := make([]string, len(g.quads))
	for i, quad := range g.quads {
		keys[i] = key(quad, labels)
	}
	return keys
}

// Key renders a triple of g as an N-Triples line without the final dot.
// Language tags are lower-cased and a blank node is labelled after the
// statements it is the subject of, so the key is stable across
// serializations that rename blank nodes while differently described
// blank nodes never share a key.
func (g *Graph) Key(quad *ld.Quad) string {
	return key(quad, g.blankLabels())
}

func key(quad *ld.Quad, labels map[string]string) string {
	return label(quad.Subject, labels) + " " + term(quad.Predicate, true) + " " + label(quad.Object, labels)
}

func label(node ld.Node, labels map[string]string) string {
	if b, is := node.(*ld.BlankNode); is {
		if l, has := labels[b.Attribute]; has {
			return l
		}
	}
	return term(node, true)
}

// blankLabels maps every blank node of g to a label derived from the
// sorted predicate/object pairs of its outgoing triples, recursively for
// nested blank nodes. A blank node met again on its own path is rendered
// with the placeholder.
func (g *Graph) blankLabels() map[string]string {
	outgoing := map[string][]*ld.Quad{}
	nodes := []string{}
	note := func(node ld.Node) {
		if b, is := node.(*ld.BlankNode); is {
			if _, has := outgoing[b.Attribute]; !has {
				outgoing[b.Attribute] = nil
				nodes = append(nodes, b.Attribute)
			}
		}
	}
	for _, quad := range g.quads {
		note(quad.Subject)
		note(quad.Object)
		if b, is := quad.Subject.(*ld.BlankNode); is {
			outgoing[b.Attribute] = append(outgoing[b.Attribute], quad)
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	sort.Strings(nodes)

	labels := make(map[string]string, len(nodes))
	path := map[string]bool{}
	var sign func(node string) string
	sign = func(node string) string {
		if l, done := labels[node]; done {
			return l
		}
		if path[node] {
			return blankPlaceholder
		}
		path[node] = true
		lines := make([]string, 0, len(outgoing[node]))
		for _, quad := range outgoing[node] {
			object := term(quad.Object, true)
			if b, is := quad.Object.(*ld.BlankNode); is {
				object = sign(b.Attribute)
			}
			lines = append(lines, term(quad.Predicate, true)+" "+object)
		}
		delete(path, node)

		sort.Strings(lines)
		sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
		l := "_:" + hex.EncodeToString(sum[:12])
		labels[node] = l
		return l
	}
	for _, node := range nodes {
		sign(node)
	}
	return labels
}

func exactKey(quad *ld.Quad) string {
	return term(quad.Subject, false) + " " + term(quad.Predicate, false) + " " + term(quad.Object, false)
}

func term(node ld.Node, relaxed bool) string {
	switch n := node.(type) {
	case *ld.IRI:
		return "<" + escape(n.Value) + ">"
	case *ld.BlankNode:
		if relaxed {
			return blankPlaceholder
		}
		return n.Attribute
	case *ld.Literal:
		s := `"` + escape(n.Value) + `"`
		if n.Language != "" {
			language := n.Language
			if relaxed {
				language = strings.ToLower(language)
			}
			return s + "@" + language
		}
		if n.Datatype != "" && n.Datatype != ld.XSDString {
			return s + "^^<" + escape(n.Datatype) + ">"
		}
		return s
	}
	return ""
}

func escape(str string) string {
	str = strings.Replace(str, "\\", "\\\\", -1)
	str = strings.Replace(str, "\"", "\\\"", -1)
	str = strings.Replace(str, "\n", "\\n", -1)
	str = strings.Replace(str, "\r", "\\r", -1)
	str = strings.Replace(str, "\t", "\\t", -1)
	return str
}

// the default graph goes first
func sortGraphNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if a == "@default" || b == "@default" {
			return a == "@default" && b != "@default"
		}
		return a < b
	})
}
