package vocabulary

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousIdentifier indicates a vocabulary with several identifiers
	ErrAmbiguousIdentifier = errors.New("vocabulary has more than one identifier")
	// ErrTaggedIdentifier indicates an identifier carrying a language tag
	ErrTaggedIdentifier = errors.New("vocabulary identifier must not have a language tag")
	// ErrMissingLanguage indicates a vocabulary without dct:language
	ErrMissingLanguage = errors.New("vocabulary has no language")
	// ErrUnknownVocabulary indicates a vocabulary URI that is not a subject
	// of the graph
	ErrUnknownVocabulary = errors.New("vocabulary URI not found in the graph")
)

// AmbiguousVocabularyError reports that the key concept marker did not
// select exactly one concept scheme.
type AmbiguousVocabularyError struct {
	Subjects int
}

func (e *AmbiguousVocabularyError) Error() string {
	return fmt.Sprintf("expected exactly one subject with a key concept, found %d", e.Subjects)
}

// UnsupportedLanguageError reports a dct:language that does not resolve
// to a supported language code.
type UnsupportedLanguageError struct {
	Language  string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (supported: %v)", e.Language, e.Supported)
}
