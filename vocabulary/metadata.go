package vocabulary

import (
	"fmt"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
	"golang.org/x/text/language"

	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/types"
)

// DefaultLanguages are the languages a vocabulary can be published in
var DefaultLanguages = []string{"it", "en"}

// Metadata is the description of the concept scheme of a vocabulary:
// the scheme subject and all of its outgoing triples.
type Metadata struct {
	uri       string
	graph     *graph.Graph
	languages []string
}

// NewMetadata selects the concept scheme of g, i.e. the single subject
// carrying the key concept marker.
func NewMetadata(g *graph.Graph, languages []string) (*Metadata, error) {
	subjects := g.SubjectsWith(types.KeyConcept)
	if len(subjects) != 1 {
		return nil, &AmbiguousVocabularyError{Subjects: len(subjects)}
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Metadata{
		uri:       subjects[0],
		graph:     g.Describe(subjects[0]),
		languages: languages,
	}, nil
}

// URI returns the IRI of the concept scheme
func (m *Metadata) URI() string { return m.uri }

// Graph returns the metadata triples
func (m *Metadata) Graph() *graph.Graph { return m.graph }

// Language resolves dct:language to a supported two-letter code.
// Both IRIs (.../language/ITA) and plain literals are accepted.
func (m *Metadata) Language() (string, error) {
	objects := m.graph.Objects(m.uri, types.DCTLanguage)
	if len(objects) == 0 {
		return "", ErrMissingLanguage
	}

	var last error
	for _, object := range objects {
		code, err := m.ResolveLanguage(types.LastSegment(object.GetValue()))
		if err == nil {
			return code, nil
		}
		last = err
	}
	return "", last
}

// ResolveLanguage maps an ISO 639 code (two or three letters, any case)
// to one of the supported two-letter codes.
func (m *Metadata) ResolveLanguage(code string) (string, error) {
	base, err := language.ParseBase(strings.ToLower(code))
	if err != nil {
		return "", &UnsupportedLanguageError{Language: code, Supported: m.languages}
	}
	resolved := base.String()
	for _, supported := range m.languages {
		if supported == resolved {
			return resolved, nil
		}
	}
	return "", &UnsupportedLanguageError{Language: code, Supported: m.languages}
}

// Values returns the values of predicate. With a language, literals
// tagged with that language are returned; untagged literals are returned
// only when no tagged literal matches. IRIs always match.
func (m *Metadata) Values(predicate, lang string) []string {
	matched, untagged := []string{}, []string{}
	for _, object := range m.graph.Objects(m.uri, predicate) {
		literal, isLiteral := object.(*ld.Literal)
		switch {
		case !isLiteral || lang == "":
			matched = append(matched, object.GetValue())
		case strings.EqualFold(literal.Language, lang):
			matched = append(matched, literal.Value)
		case literal.Language == "":
			untagged = append(untagged, literal.Value)
		}
	}
	if len(matched) == 0 {
		return untagged
	}
	return matched
}

// Value returns the first value of predicate, or ""
func (m *Metadata) Value(predicate, lang string) string {
	if values := m.Values(predicate, lang); len(values) > 0 {
		return values[0]
	}
	return ""
}

// FirstValue returns the value of the first predicate that has one
func (m *Metadata) FirstValue(predicates []string, lang string) string {
	for _, predicate := range predicates {
		if value := m.Value(predicate, lang); value != "" {
			return value
		}
	}
	return ""
}

// Identifier returns dct:identifier, or "" when there is none
func (m *Metadata) Identifier() (string, error) {
	objects := m.graph.Objects(m.uri, types.DCTIdentifier)
	switch len(objects) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", fmt.Errorf("%w: %d values", ErrAmbiguousIdentifier, len(objects))
	}
	if literal, isLiteral := objects[0].(*ld.Literal); isLiteral && literal.Language != "" {
		return "", fmt.Errorf("%w: %q@%s", ErrTaggedIdentifier, literal.Value, literal.Language)
	}
	return objects[0].GetValue(), nil
}

// Name returns the key concept
func (m *Metadata) Name() string {
	return m.Value(types.KeyConcept, "")
}

// Title returns dct:title, falling back to skos:prefLabel
func (m *Metadata) Title(lang string) string {
	return m.FirstValue([]string{types.DCTTitle, types.SKOSPrefLabel}, lang)
}

// Description returns dct:description, falling back to skos:definition
func (m *Metadata) Description(lang string) string {
	return m.FirstValue([]string{types.DCTDescription, types.SKOSDefinition}, lang)
}

// Version returns owl:versionInfo
func (m *Metadata) Version() string {
	return m.Value(types.OWLVersionInfo, "")
}

// Homepage returns dcat:accessURL
func (m *Metadata) Homepage() string {
	return m.Value(types.DCATAccessURL, "")
}

// Created returns dct:issued as a datetime. A bare date is taken at
// midnight UTC.
func (m *Metadata) Created() string {
	issued := m.Value(types.DCTIssued, "")
	if len(issued) == len("2006-01-02") {
		return issued + "T00:00:00Z"
	}
	return issued
}

// Keywords returns the sorted, distinct dcat:keyword values
func (m *Metadata) Keywords(lang string) []string {
	return sortedSet(m.Values(types.DCATKeyword, lang))
}

// Licenses returns the sorted, distinct dct:license values
func (m *Metadata) Licenses() []string {
	return sortedSet(m.Values(types.DCTLicense, ""))
}

func sortedSet(values []string) []string {
	seen := map[string]bool{}
	set := []string{}
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			set = append(set, value)
		}
	}
	sort.Strings(set)
	return set
}
