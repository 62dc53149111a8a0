// Package config provides layered TOML configuration for vocabtools.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/types"
)

// Index backends
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config is the complete vocabtools configuration
type Config struct {
	Framing    FramingConfig    `toml:"framing"`
	Tabular    TabularConfig    `toml:"tabular"`
	Dialect    DialectConfig    `toml:"dialect"`
	Vocabulary VocabularyConfig `toml:"vocabulary"`
	Index      IndexConfig      `toml:"index"`
	// Contexts maps remote JSON-LD context URLs to local files, so that
	// documents referencing them resolve offline
	Contexts map[string]string `toml:"contexts,omitempty"`
}

// FramingConfig configures the JSON-LD framer
type FramingConfig struct {
	// BatchSize is the number of items framed at once; 0 frames everything
	// in one batch
	BatchSize int `toml:"batch_size"`
}

// TabularConfig configures the CSV projection and its validation
type TabularConfig struct {
	// IgnorePredicates are never turned into columns
	IgnorePredicates []string `toml:"ignore_predicates"`
	// MinTriples is the least number of triples a CSV must produce
	MinTriples int `toml:"min_triples"`
}

// DialectConfig overrides the CSV dialect of generated files
type DialectConfig struct {
	Delimiter      string `toml:"delimiter"`
	LineTerminator string `toml:"line_terminator"`
	QuoteChar      string `toml:"quote_char"`
}

// VocabularyConfig configures metadata extraction
type VocabularyConfig struct {
	// Languages are the supported language codes
	Languages []string `toml:"languages"`
	// DefaultLanguage is used when the vocabulary does not declare one
	DefaultLanguage string `toml:"default_language"`
}

// IndexConfig selects the triple index used by subset checks
type IndexConfig struct {
	// Backend is "memory" or "badger"
	Backend string `toml:"backend"`
	// Dir is the badger directory; empty keeps badger in memory
	Dir string `toml:"dir"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	d := datapackage.DefaultDialect()
	return &Config{
		Framing: FramingConfig{BatchSize: 0},
		Tabular: TabularConfig{
			IgnorePredicates: []string{types.SKOSInScheme, types.SKOSBroader},
			MinTriples:       1,
		},
		Dialect: DialectConfig{
			Delimiter:      d.Delimiter,
			LineTerminator: d.LineTerminator,
			QuoteChar:      d.QuoteChar,
		},
		Vocabulary: VocabularyConfig{
			Languages: []string{"it", "en"},
		},
		Index: IndexConfig{Backend: BackendMemory},
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Framing.BatchSize < 0 {
		return fmt.Errorf("framing.batch_size must not be negative")
	}
	if c.Tabular.MinTriples < 0 {
		return fmt.Errorf("tabular.min_triples must not be negative")
	}
	if err := c.CSVDialect().Validate(); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	if len(c.Vocabulary.Languages) == 0 {
		return fmt.Errorf("vocabulary.languages is required")
	}
	if lang := c.Vocabulary.DefaultLanguage; lang != "" {
		found := false
		for _, supported := range c.Vocabulary.Languages {
			found = found || supported == lang
		}
		if !found {
			return fmt.Errorf("vocabulary.default_language %q is not in vocabulary.languages", lang)
		}
	}
	switch c.Index.Backend {
	case BackendMemory, BackendBadger:
	default:
		return fmt.Errorf("index.backend must be %q or %q, got %q", BackendMemory, BackendBadger, c.Index.Backend)
	}
	for u, path := range c.Contexts {
		if path == "" {
			return fmt.Errorf("contexts: empty path for %q", u)
		}
	}
	return nil
}

// CSVDialect returns the dialect of generated CSV files
func (c *Config) CSVDialect() *datapackage.Dialect {
	return (&datapackage.Dialect{
		Delimiter:      c.Dialect.Delimiter,
		LineTerminator: c.Dialect.LineTerminator,
		QuoteChar:      c.Dialect.QuoteChar,
	}).Resolve()
}

// LoadFromFile reads a TOML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	// context files are relative to the config file
	for u, file := range config.Contexts {
		if file != "" && !filepath.IsAbs(file) {
			config.Contexts[u] = filepath.Join(filepath.Dir(path), file)
		}
	}
	return config, nil
}

// SaveToFile writes the configuration as TOML
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Merge merges another config into this one. Non-zero values of other
// take precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Framing.BatchSize != 0 {
		c.Framing.BatchSize = other.Framing.BatchSize
	}

	if other.Tabular.IgnorePredicates != nil {
		c.Tabular.IgnorePredicates = other.Tabular.IgnorePredicates
	}
	if other.Tabular.MinTriples != 0 {
		c.Tabular.MinTriples = other.Tabular.MinTriples
	}

	if other.Dialect.Delimiter != "" {
		c.Dialect.Delimiter = other.Dialect.Delimiter
	}
	if other.Dialect.LineTerminator != "" {
		c.Dialect.LineTerminator = other.Dialect.LineTerminator
	}
	if other.Dialect.QuoteChar != "" {
		c.Dialect.QuoteChar = other.Dialect.QuoteChar
	}

	if len(other.Vocabulary.Languages) > 0 {
		c.Vocabulary.Languages = other.Vocabulary.Languages
	}
	if other.Vocabulary.DefaultLanguage != "" {
		c.Vocabulary.DefaultLanguage = other.Vocabulary.DefaultLanguage
	}

	if other.Index.Backend != "" {
		c.Index.Backend = other.Index.Backend
	}
	if other.Index.Dir != "" {
		c.Index.Dir = other.Index.Dir
	}

	for u, path := range other.Contexts {
		if c.Contexts == nil {
			c.Contexts = map[string]string{}
		}
		c.Contexts[u] = path
	}
}
