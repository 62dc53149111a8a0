package datapackage

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// A Dialect describes the CSV flavour of a resource
// (https://datapackage.org/standard/table-dialect/)
type Dialect struct {
	CSVDDFVersion    float64 `json:"csvddfVersion,omitempty" yaml:"csvddfVersion,omitempty"`
	Delimiter        string  `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	LineTerminator   string  `json:"lineTerminator,omitempty" yaml:"lineTerminator,omitempty"`
	QuoteChar        string  `json:"quoteChar,omitempty" yaml:"quoteChar,omitempty"`
	DoubleQuote      *bool   `json:"doubleQuote,omitempty" yaml:"doubleQuote,omitempty"`
	SkipInitialSpace bool    `json:"skipInitialSpace,omitempty" yaml:"skipInitialSpace,omitempty"`
	Header           *bool   `json:"header,omitempty" yaml:"header,omitempty"`
	CommentChar      string  `json:"commentChar,omitempty" yaml:"commentChar,omitempty"`
}

// DefaultDialect returns the dialect of the generated CSV files
func DefaultDialect() *Dialect {
	yes := true
	return &Dialect{
		CSVDDFVersion:  1.2,
		Delimiter:      ",",
		LineTerminator: "\r\n",
		QuoteChar:      `"`,
		DoubleQuote:    &yes,
		Header:         &yes,
		CommentChar:    "#",
	}
}

// UnsupportedDialectError lists the settings of a dialect that the CSV
// reader and writer cannot honour.
type UnsupportedDialectError struct {
	Reasons []string
}

func (e *UnsupportedDialectError) Error() string {
	return "unsupported dialect: " + strings.Join(e.Reasons, "; ")
}

// Validate checks that d only uses supported settings: a single-character
// delimiter, a " or ' quote character, doubled quotes, a header row,
// significant leading spaces and # comments. Unset properties take their default.
func (d *Dialect) Validate() error {
	var reasons []string
	r := d.Resolve()

	if utf8.RuneCountInString(r.Delimiter) != 1 || strings.ContainsAny(r.Delimiter, "\r\n") {
		reasons = append(reasons, fmt.Sprintf("delimiter %q must be a single character", r.Delimiter))
	}
	switch r.LineTerminator {
	case "\n", "\r\n", "\r":
	default:
		reasons = append(reasons, fmt.Sprintf("lineTerminator %q is not a line break", r.LineTerminator))
	}
	switch r.QuoteChar {
	case `"`, "'":
		if r.QuoteChar == r.Delimiter {
			reasons = append(reasons, "quoteChar and delimiter must differ")
		}
	default:
		reasons = append(reasons, fmt.Sprintf("quoteChar %q is not supported", r.QuoteChar))
	}
	if !*r.DoubleQuote {
		reasons = append(reasons, "doubleQuote must be true")
	}
	if !*r.Header {
		reasons = append(reasons, "header must be true")
	}
	if r.SkipInitialSpace {
		reasons = append(reasons, "skipInitialSpace must be false")
	}
	if r.CommentChar != "#" {
		reasons = append(reasons, fmt.Sprintf("commentChar %q is not supported", r.CommentChar))
	}

	if len(reasons) > 0 {
		return &UnsupportedDialectError{Reasons: reasons}
	}
	return nil
}

// Resolve returns a copy of d with every unset property set to its default
func (d *Dialect) Resolve() *Dialect {
	r := DefaultDialect()
	if d == nil {
		return r
	}
	resolved := *d
	if resolved.Delimiter == "" {
		resolved.Delimiter = r.Delimiter
	}
	if resolved.LineTerminator == "" {
		resolved.LineTerminator = r.LineTerminator
	}
	if resolved.QuoteChar == "" {
		resolved.QuoteChar = r.QuoteChar
	}
	if resolved.DoubleQuote == nil {
		resolved.DoubleQuote = r.DoubleQuote
	}
	if resolved.Header == nil {
		resolved.Header = r.Header
	}
	if resolved.CommentChar == "" {
		resolved.CommentChar = r.CommentChar
	}
	return &resolved
}

// Comma returns the delimiter rune
func (d *Dialect) Comma() rune {
	r, _ := utf8.DecodeRuneInString(d.Resolve().Delimiter)
	return r
}

// Quote returns the quote rune
func (d *Dialect) Quote() rune {
	r, _ := utf8.DecodeRuneInString(d.Resolve().QuoteChar)
	return r
}
