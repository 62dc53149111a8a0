package vocabulary

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/projector"
	"github.com/italia/vocabtools/types"
)

const (
	currencyTTL   = "../testdata/currency.ttl"
	currencyFrame = "../testdata/currency.frame.yamlld"
	currencyIRI   = "https://w3id.org/italia/controlled-vocabulary/currency"
)

func parse(t *testing.T, ttl string) *Vocabulary {
	t.Helper()
	g, err := graph.ParseTurtle(strings.NewReader(ttl))
	require.NoError(t, err)
	return New(g, nil)
}

func currency(t *testing.T) *Vocabulary {
	t.Helper()
	v, err := Load(currencyTTL, nil)
	require.NoError(t, err)
	return v
}

func TestMetadata(t *testing.T) {
	meta, err := currency(t).Metadata()
	require.NoError(t, err)

	assert.Equal(t, currencyIRI, meta.URI())
	assert.Equal(t, 15, meta.Graph().Len())
	assert.Equal(t, "currency", meta.Name())
	assert.Equal(t, "Valute", meta.Title("it"))
	assert.Equal(t, "Currencies", meta.Title("en"))
	assert.Equal(t, "Controlled vocabulary of currencies", meta.Description("en"))
	assert.Equal(t, "1.0", meta.Version())
	assert.Equal(t, "https://www.dati.gov.it/", meta.Homepage())
	assert.Equal(t, "2024-01-15T00:00:00Z", meta.Created())
	assert.Equal(t, []string{"moneta", "valuta"}, meta.Keywords("it"))
	assert.Equal(t, []string{"https://creativecommons.org/licenses/by/4.0/"}, meta.Licenses())

	id, err := meta.Identifier()
	require.NoError(t, err)
	assert.Equal(t, "currency", id)

	lang, err := meta.Language()
	require.NoError(t, err)
	assert.Equal(t, "it", lang)
}

func TestCheckURI(t *testing.T) {
	v := currency(t)
	assert.NoError(t, v.CheckURI(currencyIRI))
	assert.NoError(t, v.CheckURI(currencyIRI+"/EUR"))
	assert.ErrorIs(t, v.CheckURI(currencyIRI+"/XXX"), ErrUnknownVocabulary)
}

func TestURIIsMemoized(t *testing.T) {
	v := currency(t)

	var wg sync.WaitGroup
	uris := make([]string, 8)
	for i := range uris {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uris[i], _ = v.URI()
		}(i)
	}
	wg.Wait()

	for _, uri := range uris {
		assert.Equal(t, currencyIRI, uri)
	}
	first, _ := v.Metadata()
	second, _ := v.Metadata()
	assert.Same(t, first, second)
}

func TestAmbiguousVocabulary(t *testing.T) {
	for name, ttl := range map[string]string{
		"none": `<http://example.org/a> <http://example.org/p> "x" .`,
		"two": `
<http://example.org/a> <https://w3id.org/italia/onto/NDC/keyConcept> "a" .
<http://example.org/b> <https://w3id.org/italia/onto/NDC/keyConcept> "b" .`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, ttl).URI()
			var ambiguous *AmbiguousVocabularyError
			require.ErrorAs(t, err, &ambiguous)
			if name == "two" {
				assert.Equal(t, 2, ambiguous.Subjects)
			} else {
				assert.Equal(t, 0, ambiguous.Subjects)
			}
		})
	}
}

const languageTemplate = `
<http://example.org/v> <https://w3id.org/italia/onto/NDC/keyConcept> "v" ;
    <http://purl.org/dc/terms/language> LANG .`

func TestLanguage(t *testing.T) {
	for lang, expected := range map[string]string{
		"<http://publications.europa.eu/resource/authority/language/ITA>": "it",
		"<http://publications.europa.eu/resource/authority/language/ENG>": "en",
		"<http://id.loc.gov/vocabulary/iso639-1/it>":                      "it",
		`"en"`: "en",
	} {
		meta, err := parse(t, strings.Replace(languageTemplate, "LANG", lang, 1)).Metadata()
		require.NoError(t, err)
		code, err := meta.Language()
		require.NoError(t, err, lang)
		assert.Equal(t, expected, code, lang)
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	ttl := strings.Replace(languageTemplate, "LANG", "<http://publications.europa.eu/resource/authority/language/DEU>", 1)
	meta, err := parse(t, ttl).Metadata()
	require.NoError(t, err)

	_, err = meta.Language()
	var unsupported *UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "DEU", unsupported.Language)

	g, err := graph.ParseTurtle(strings.NewReader(ttl))
	require.NoError(t, err)
	meta, err = New(g, &Options{Languages: []string{"de"}}).Metadata()
	require.NoError(t, err)
	code, err := meta.Language()
	require.NoError(t, err)
	assert.Equal(t, "de", code)
}

func TestMissingLanguage(t *testing.T) {
	meta, err := parse(t, `<http://example.org/v> <https://w3id.org/italia/onto/NDC/keyConcept> "v" .`).Metadata()
	require.NoError(t, err)
	_, err = meta.Language()
	assert.ErrorIs(t, err, ErrMissingLanguage)
}

func TestIdentifier(t *testing.T) {
	const prefix = `<http://example.org/v> <https://w3id.org/italia/onto/NDC/keyConcept> "v" .
`
	meta, err := parse(t, prefix).Metadata()
	require.NoError(t, err)
	id, err := meta.Identifier()
	require.NoError(t, err)
	assert.Empty(t, id)

	meta, err = parse(t, prefix+`<http://example.org/v> <http://purl.org/dc/terms/identifier> "a", "b" .`).Metadata()
	require.NoError(t, err)
	_, err = meta.Identifier()
	assert.ErrorIs(t, err, ErrAmbiguousIdentifier)

	meta, err = parse(t, prefix+`<http://example.org/v> <http://purl.org/dc/terms/identifier> "a"@it .`).Metadata()
	require.NoError(t, err)
	_, err = meta.Identifier()
	assert.ErrorIs(t, err, ErrTaggedIdentifier)
}

func TestValuesLanguageFallback(t *testing.T) {
	meta, err := parse(t, `
<http://example.org/v> <https://w3id.org/italia/onto/NDC/keyConcept> "v" ;
    <http://purl.org/dc/terms/title> "Plain" ;
    <http://www.w3.org/2004/02/skos/core#prefLabel> "Etichetta"@it ;
    <http://purl.org/dc/terms/description> "Descrizione"@IT, "Nessuna" .`).Metadata()
	require.NoError(t, err)

	assert.Equal(t, "Plain", meta.Title("it"))
	assert.Equal(t, "Descrizione", meta.Description("it"))
	assert.Equal(t, "Nessuna", meta.Description("en"))
	assert.Equal(t, []string{"Descrizione", "Nessuna"}, meta.Values(types.DCTDescription, ""))
	assert.Equal(t, "", meta.Version())
	assert.Equal(t, "", meta.Created())
}

func TestProject(t *testing.T) {
	frame, err := types.ReadFrame(currencyFrame)
	require.NoError(t, err)

	var applied []string
	record := projector.Callback{Name: "record", Apply: func(doc *types.Document) error {
		applied = append(applied, "record")
		return nil
	}}
	doc, err := currency(t).Project(frame, 2, projector.SelectFields(frame), record)
	require.NoError(t, err)

	assert.Equal(t, []string{"record"}, applied)
	assert.Equal(t, 4, doc.Statistics.FramedItems)
	assert.Equal(t, 3, doc.Statistics.Batches)
	assert.Equal(t, []string{"currency"}, doc.Statistics.Filtered)
}
