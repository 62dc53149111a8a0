package types

import (
	"regexp"
	"strings"
)

var testNamespace = regexp.MustCompile(`^(?:https?://|urn:)`)

// IsNamespace reports whether a context value declares a namespace
// (an absolute http, https or urn IRI) rather than a data field.
func IsNamespace(value interface{}) bool {
	s, is := value.(string)
	return is && testNamespace.MatchString(s)
}

// IsKeyword reports whether a JSON-LD key is a keyword
func IsKeyword(key string) bool {
	return strings.HasPrefix(key, "@")
}

// LocalName returns the part of an IRI after the last slash or hash.
// Identifiers without either separator are returned unchanged.
func LocalName(iri string) string {
	iri = strings.TrimRight(iri, "/")
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// LastSegment returns the last path segment of an IRI, ignoring fragments.
func LastSegment(iri string) string {
	if i := strings.Index(iri, "#"); i >= 0 {
		iri = iri[:i]
	}
	iri = strings.TrimRight(iri, "/")
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
