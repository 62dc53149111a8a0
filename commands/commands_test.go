package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italia/vocabtools/config"
	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/tabular"
	"github.com/italia/vocabtools/types"
	"github.com/italia/vocabtools/vocabulary"
)

const (
	currencyTTL   = "../testdata/currency.ttl"
	currencyFrame = "../testdata/currency.frame.yamlld"
	currencyExtra = "../testdata/currency-extra.yamlld"
	currencyIRI   = "https://w3id.org/italia/controlled-vocabulary/currency"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(args ...string) result {
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// pipeline creates the framed file, the descriptor and the CSV of the
// currency fixture in dir.
func pipeline(t *testing.T, dir string) (jsonld, descriptor, csv string) {
	t.Helper()
	jsonld = filepath.Join(dir, "currency.yamlld")
	descriptor = filepath.Join(dir, "datapackage.yaml")
	csv = filepath.Join(dir, "currency.csv")

	r := run("jsonld", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", jsonld, "--frame-only")
	require.NoError(t, r.err, r.stderr)

	r = run("datapackage", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", descriptor)
	require.NoError(t, r.err, r.stderr)

	r = run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor)
	require.NoError(t, r.err, r.stderr)
	return jsonld, descriptor, csv
}

func TestVersion(t *testing.T) {
	original := Version
	Version = "test-version-1.0.0"
	defer func() { Version = original }()

	r := run("version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "vocabtools version test-version-1.0.0")
}

func TestJSONLDCreate(t *testing.T) {
	output := filepath.Join(t.TempDir(), "currency.yamlld")
	r := run("jsonld", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", output, "--frame-only", "--batch-size", "2")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "✓ Created: "+output)
	assert.Contains(t, r.stdout, "--frame-only is set")

	doc, err := types.ReadDocument(output)
	require.NoError(t, err)
	assert.Len(t, doc.Graph, 4)
	assert.Equal(t, 3, doc.Statistics.Batches)
	assert.Equal(t, []string{"currency"}, doc.Statistics.Filtered)
}

func TestJSONLDCreateKeyField(t *testing.T) {
	output := filepath.Join(t.TempDir(), "currency.yamlld")
	r := run("jsonld", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", output, "--key-base-uri", currencyIRI+"/")
	require.NoError(t, r.err, r.stderr)

	doc, err := types.ReadDocument(output)
	require.NoError(t, err)
	for _, record := range doc.Graph {
		assert.Equal(t, record["id"], record["key"])
	}

	r = run("jsonld", "validate", "--ttl", currencyTTL, "--jsonld", output, "--vocabulary-uri", currencyIRI)
	assert.NoError(t, r.err, r.stderr)
}

func TestJSONLDValidate(t *testing.T) {
	jsonld, _, _ := pipeline(t, t.TempDir())

	r := run("jsonld", "validate", "--ttl", currencyTTL, "--jsonld", jsonld, "--vocabulary-uri", currencyIRI)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "✓ JSON-LD validation passed")
}

func TestJSONLDValidateExtraTriple(t *testing.T) {
	r := run("jsonld", "validate", "--ttl", currencyTTL, "--jsonld", currencyExtra, "--vocabulary-uri", currencyIRI)

	var violation *graph.SubsetViolationError
	require.ErrorAs(t, r.err, &violation)
	assert.Equal(t, 1, violation.Extra)
	assert.Contains(t, r.stderr, "✗ JSON-LD validation failed: 1 triple(s) not found")
}

func TestJSONLDValidateWithBadgerIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "vocabtools.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[index]\nbackend = \"badger\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "index"))+"\"\n"), 0644))

	r := run("--config", cfg, "jsonld", "validate", "--ttl", currencyTTL, "--jsonld", currencyExtra, "--vocabulary-uri", currencyIRI)
	var violation *graph.SubsetViolationError
	require.ErrorAs(t, r.err, &violation)
	assert.Equal(t, 1, violation.Extra)
}

func TestUnknownVocabularyURI(t *testing.T) {
	r := run("jsonld", "validate", "--ttl", currencyTTL, "--jsonld", currencyExtra, "--vocabulary-uri", currencyIRI+"/missing")
	assert.ErrorIs(t, r.err, vocabulary.ErrUnknownVocabulary)
}

func TestMissingInputFile(t *testing.T) {
	r := run("jsonld", "validate", "--ttl", "missing.ttl", "--jsonld", currencyExtra, "--vocabulary-uri", currencyIRI)
	assert.ErrorIs(t, r.err, os.ErrNotExist)
	assert.Contains(t, r.stderr, "--ttl")
}

func TestMissingRequiredFlag(t *testing.T) {
	r := run("jsonld", "validate", "--ttl", currencyTTL)
	assert.Error(t, r.err)
}

func TestDatapackageCreate(t *testing.T) {
	_, descriptor, _ := pipeline(t, t.TempDir())

	pkg, err := datapackage.Load(descriptor)
	require.NoError(t, err)
	assert.Equal(t, "currency", pkg.Name)
	assert.Equal(t, "Valute", pkg.Title)
	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, "currency.csv", pkg.Resources[0].Path)
	assert.Equal(t, []string{"url", "id", "label", "label_en", "level"}, pkg.Resources[0].Schema.FieldNames())

	ctx, is := pkg.Resources[0].Schema.Context()
	require.True(t, is)
	assert.Equal(t, "@id", ctx["url"])
}

func TestDatapackageCreateLanguage(t *testing.T) {
	descriptor := filepath.Join(t.TempDir(), "datapackage.yaml")
	r := run("datapackage", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", descriptor, "--lang", "en")
	require.NoError(t, r.err, r.stderr)

	pkg, err := datapackage.Load(descriptor)
	require.NoError(t, err)
	assert.Equal(t, "Currencies", pkg.Title)

	r = run("datapackage", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", descriptor, "--lang", "de")
	var unsupported *vocabulary.UnsupportedLanguageError
	assert.ErrorAs(t, r.err, &unsupported)
}

func TestDatapackageCreateJSONLDType(t *testing.T) {
	r := run("datapackage", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", filepath.Join(t.TempDir(), "datapackage.yaml"),
		"--jsonld-type", "skos:Concept")
	assert.ErrorIs(t, r.err, ErrNotImplemented)
}

func TestDatapackageValidate(t *testing.T) {
	dir := t.TempDir()
	_, descriptor, csv := pipeline(t, dir)

	r := run("datapackage", "validate", "--datapackage", descriptor)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "✓ Datapackage validation passed")

	require.NoError(t, os.WriteFile(csv, []byte("\"url\",\"id\"\r\n"), 0644))
	r = run("datapackage", "validate", "--datapackage", descriptor)
	var invalid *datapackage.SchemaValidationError
	assert.ErrorAs(t, r.err, &invalid)

	r = run("datapackage", "validate", "--datapackage", descriptor, "--check-csv=false")
	assert.NoError(t, r.err, r.stderr)
}

func TestCSVCreate(t *testing.T) {
	dir := t.TempDir()
	jsonld, descriptor, csv := pipeline(t, dir)

	data, err := os.ReadFile(csv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"url\",\"id\",\"label\",\"label_en\",\"level\"\r\n")

	r := run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor)
	var exists *OutputExistsError
	require.ErrorAs(t, r.err, &exists)
	assert.Equal(t, csv, exists.Path)

	r = run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor, "--force")
	assert.NoError(t, r.err, r.stderr)
}

func TestCSVCreateOutput(t *testing.T) {
	dir := t.TempDir()
	jsonld, descriptor, _ := pipeline(t, dir)
	output := filepath.Join(dir, "renamed.csv")

	r := run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor, "--output", output)
	require.NoError(t, r.err, r.stderr)
	assert.FileExists(t, output)

	pkg, err := datapackage.Load(descriptor)
	require.NoError(t, err)
	assert.Equal(t, "renamed.csv", pkg.Resources[0].Path)
}

func TestCSVCreateOutputOutsideDescriptorDir(t *testing.T) {
	jsonld, descriptor, _ := pipeline(t, t.TempDir())
	output := filepath.Join(t.TempDir(), "currency.csv")

	r := run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor, "--output", output)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "--output must be inside")
	assert.NoFileExists(t, output)

	pkg, err := datapackage.Load(descriptor)
	require.NoError(t, err)
	assert.Equal(t, "currency.csv", pkg.Resources[0].Path)
}

func TestKeyFieldPipeline(t *testing.T) {
	dir := t.TempDir()
	jsonld := filepath.Join(dir, "currency.yamlld")
	descriptor := filepath.Join(dir, "datapackage.yaml")
	keyBase := currencyIRI + "/"

	r := run("jsonld", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", jsonld, "--frame-only", "--key-base-uri", keyBase)
	require.NoError(t, r.err, r.stderr)
	r = run("datapackage", "create", "--ttl", currencyTTL, "--frame", currencyFrame,
		"--vocabulary-uri", currencyIRI, "--output", descriptor, "--key-base-uri", keyBase)
	require.NoError(t, r.err, r.stderr)

	pkg, err := datapackage.Load(descriptor)
	require.NoError(t, err)
	schema := pkg.Resources[0].Schema
	assert.Equal(t, []string{"url", "id", "label", "label_en", "level", "key"}, schema.FieldNames())
	key, found := schema.Field("key")
	require.True(t, found)
	assert.Equal(t, datapackage.TypeString, key.Type)
	ctx, is := schema.Context()
	require.True(t, is)
	assert.Contains(t, ctx, "key")
	assert.Nil(t, ctx["key"])

	r = run("csv", "create", "--jsonld", jsonld, "--datapackage", descriptor)
	require.NoError(t, r.err, r.stderr)
	data, err := os.ReadFile(filepath.Join(dir, "currency.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"`+currencyIRI+`/EUR","EUR","Euro","Euro","1","EUR"`)

	r = run("csv", "validate", "--ttl", currencyTTL, "--datapackage", descriptor, "--vocabulary-uri", currencyIRI)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "(4 rows, 16 triples)")
}

func TestCSVValidate(t *testing.T) {
	dir := t.TempDir()
	_, descriptor, _ := pipeline(t, dir)
	metricsFile := filepath.Join(dir, "vocabtools.prom")

	r := run("--metrics-file", metricsFile, "csv", "validate", "--ttl", currencyTTL,
		"--datapackage", descriptor, "--vocabulary-uri", currencyIRI)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "✓ CSV roundtrip validation passed (4 rows, 16 triples)")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vocabtools_roundtrip_csv_rows 4")
	assert.Contains(t, string(data), "vocabtools_roundtrip_extra_triples 0")
}

func TestCSVValidateMinTriples(t *testing.T) {
	_, descriptor, _ := pipeline(t, t.TempDir())

	r := run("csv", "validate", "--ttl", currencyTTL, "--datapackage", descriptor,
		"--vocabulary-uri", currencyIRI, "--min-triples", "100")
	var insufficient *tabular.InsufficientDataError
	require.ErrorAs(t, r.err, &insufficient)
	assert.Equal(t, 16, insufficient.Triples)
	assert.Contains(t, r.stderr, "✗ CSV roundtrip validation failed")
}

func TestOpenAPICreate(t *testing.T) {
	r := run("openapi", "create", "--jsonld", currencyExtra, "--frame", currencyFrame,
		"--output", filepath.Join(t.TempDir(), "openapi.yaml"))
	assert.ErrorIs(t, r.err, ErrNotImplemented)
}

func TestInvalidLogLevel(t *testing.T) {
	r := run("--log-level", "loud", "openapi", "create", "--jsonld", currencyExtra,
		"--frame", currencyFrame, "--output", "x")
	require.Error(t, r.err)
	assert.NotErrorIs(t, r.err, ErrNotImplemented)
	assert.Contains(t, r.err.Error(), "unknown log level")
}

func TestInvalidConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "vocabtools.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[index]\nbackend = \"sqlite\"\n"), 0644))

	r := run("--config", cfg, "version")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "loading config")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	layer := filepath.Join(dir, "layer.toml")
	require.NoError(t, os.WriteFile(layer, []byte("[framing]\nbatch_size = 25\n"), 0644))
	output := filepath.Join(dir, "out", "vocabtools.toml")

	r := run("--config", layer, "config", "init", "--output", output)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "✓ Created: "+output)

	written, err := config.LoadFromFile(output)
	require.NoError(t, err)
	assert.Equal(t, 25, written.Framing.BatchSize)
	assert.Equal(t, config.DefaultConfig().Vocabulary.Languages, written.Vocabulary.Languages)
	require.NoError(t, written.Validate())

	r = run("config", "init", "--output", output)
	var exists *OutputExistsError
	require.ErrorAs(t, r.err, &exists)

	r = run("config", "init", "--output", output, "--force")
	require.NoError(t, r.err, r.stderr)
	written, err = config.LoadFromFile(output)
	require.NoError(t, err)
	assert.Equal(t, 0, written.Framing.BatchSize)
}

func TestConfigContextsReachLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contexts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contexts", "vocab.jsonld"),
		[]byte(`{"@context": {"label": "http://www.w3.org/2004/02/skos/core#prefLabel"}}`), 0644))
	cfg := filepath.Join(dir, "vocabtools.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[contexts]\n\"https://example.org/vocab.jsonld\" = \"contexts/vocab.jsonld\"\n"), 0644))

	a := newApp()
	cmd := a.rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "version"})
	require.NoError(t, cmd.Execute())

	remote, err := a.loader.LoadDocument("https://example.org/vocab.jsonld")
	require.NoError(t, err)
	assert.Contains(t, remote.Document, "@context")

	_, err = a.loader.LoadDocument("https://example.org/unmapped.jsonld")
	assert.Error(t, err)
}
