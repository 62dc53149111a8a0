package datapackage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italia/vocabtools/types"
	"github.com/italia/vocabtools/vocabulary"
)

const currencyTTL = "../testdata/currency.ttl"

func currencyMetadata(t *testing.T) *vocabulary.Metadata {
	t.Helper()
	v, err := vocabulary.Load(currencyTTL, nil)
	require.NoError(t, err)
	meta, err := v.Metadata()
	require.NoError(t, err)
	return meta
}

func currencyResource() Resource {
	return NewResource("currency", "currency.csv", &Schema{
		Fields: []Field{
			{Name: "url", Type: TypeString},
			{Name: "id", Type: TypeString},
			{Name: "level", Type: TypeInteger},
		},
		JSONLDContext: map[string]interface{}{"url": "@id"},
	}, DefaultDialect())
}

func TestBuilderPackage(t *testing.T) {
	pkg, err := (&Builder{}).Package(currencyMetadata(t))
	require.NoError(t, err)

	assert.Equal(t, &Package{
		Profile:     types.DatapackageProfile,
		Name:        "currency",
		ID:          "currency",
		Title:       "Valute",
		Description: "Vocabolario controllato delle valute",
		Version:     "1.0",
		Homepage:    "https://www.dati.gov.it/",
		Created:     "2024-01-15T00:00:00Z",
		Keywords:    []string{"moneta", "valuta"},
		Licenses:    []License{{Path: "https://creativecommons.org/licenses/by/4.0/"}},
		Resources:   []Resource{},
	}, pkg)
}

func TestBuilderLanguageOverride(t *testing.T) {
	pkg, err := (&Builder{Language: "eng"}).Package(currencyMetadata(t))
	require.NoError(t, err)
	assert.Equal(t, "Currencies", pkg.Title)
	assert.Equal(t, "Controlled vocabulary of currencies", pkg.Description)
	assert.Empty(t, pkg.Keywords)

	_, err = (&Builder{Language: "fr"}).Package(currencyMetadata(t))
	var unsupported *vocabulary.UnsupportedLanguageError
	assert.ErrorAs(t, err, &unsupported)
}

func TestBuilderBuild(t *testing.T) {
	resource := currencyResource()
	pkg, err := (&Builder{}).Build(currencyMetadata(t), resource)
	require.NoError(t, err)

	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, resource, pkg.Resources[0])
	assert.Equal(t, "table", pkg.Resources[0].Type)
	assert.Equal(t, "file", pkg.Resources[0].Scheme)
	assert.Equal(t, "csv", pkg.Resources[0].Format)
	assert.Equal(t, "text/csv", pkg.Resources[0].MediaType)
	assert.Equal(t, "utf-8", pkg.Resources[0].Encoding)
}

func TestBuilderRejectsInvalidResource(t *testing.T) {
	resource := currencyResource()
	resource.Path = "../outside.csv"
	_, err := (&Builder{}).Build(currencyMetadata(t), resource)
	var invalid *SchemaValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestValidate(t *testing.T) {
	valid := &Package{Name: "currency", Resources: []Resource{currencyResource()}}
	assert.NoError(t, Validate(valid))

	for name, pkg := range map[string]*Package{
		"no resources": {Name: "currency", Resources: []Resource{}},
		"no name":      {Resources: []Resource{currencyResource()}},
		"bad created":  {Name: "currency", Created: "2024-01-15", Resources: []Resource{currencyResource()}},
		"bad field type": {Name: "currency", Resources: []Resource{
			NewResource("currency", "currency.csv", &Schema{Fields: []Field{{Name: "id", Type: "text"}}}, nil),
		}},
		"bad dialect": {Name: "currency", Resources: []Resource{
			NewResource("currency", "currency.csv", &Schema{Fields: []Field{{Name: "id", Type: "string"}}}, &Dialect{CommentChar: ";"}),
		}},
	} {
		t.Run(name, func(t *testing.T) {
			var invalid *SchemaValidationError
			assert.ErrorAs(t, Validate(pkg), &invalid)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	pkg, err := (&Builder{}).Build(currencyMetadata(t), currencyResource())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "datapackage.yaml")
	require.NoError(t, Save(path, pkg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pkg, loaded)

	ctx, is := loaded.Resources[0].Schema.Context()
	require.True(t, is)
	assert.Equal(t, "@id", ctx["url"])
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("name: currency\nresources: nope\n"))
	var invalid *SchemaValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = Parse([]byte("name: [unterminated"))
	assert.ErrorAs(t, err, &invalid)
}

func TestDialectValidate(t *testing.T) {
	no := false
	assert.NoError(t, DefaultDialect().Validate())
	assert.NoError(t, (&Dialect{}).Validate())
	assert.NoError(t, (&Dialect{Delimiter: ";", QuoteChar: "'", LineTerminator: "\n"}).Validate())

	for name, dialect := range map[string]*Dialect{
		"double quote": {DoubleQuote: &no},
		"no header":    {Header: &no},
		"comment":      {CommentChar: "%"},
		"quote":        {QuoteChar: "`"},
		"delimiter":    {Delimiter: "::"},
		"terminator":   {LineTerminator: ";"},
		"same chars":   {Delimiter: "'", QuoteChar: "'"},
		"skip spaces":  {SkipInitialSpace: true},
	} {
		t.Run(name, func(t *testing.T) {
			var unsupported *UnsupportedDialectError
			require.ErrorAs(t, dialect.Validate(), &unsupported)
			assert.Len(t, unsupported.Reasons, 1)
		})
	}
}

func TestDialectResolve(t *testing.T) {
	d := &Dialect{Delimiter: ";"}
	r := d.Resolve()
	assert.Equal(t, ";", r.Delimiter)
	assert.Equal(t, `"`, r.QuoteChar)
	assert.True(t, *r.Header)
	assert.Nil(t, d.Header)
	assert.Equal(t, ';', d.Comma())
	assert.Equal(t, '"', d.Quote())
}
