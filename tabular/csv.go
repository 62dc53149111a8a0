package tabular

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/italia/vocabtools/types"
)

// WriteCSV writes the header and the rows to w in schema field order,
// using the dialect. Every field is quoted and quote characters inside
// values are doubled.
func (t *Tabular) WriteCSV(w io.Writer) error {
	if !t.loaded {
		return ErrNotTabular
	}
	if t.schema == nil {
		return ErrNoSchema
	}

	d := t.dialect.Resolve()
	buf := bufio.NewWriter(w)
	writeLine := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				buf.WriteString(d.Delimiter)
			}
			buf.WriteString(d.QuoteChar)
			buf.WriteString(strings.ReplaceAll(field, d.QuoteChar, d.QuoteChar+d.QuoteChar))
			buf.WriteString(d.QuoteChar)
		}
		buf.WriteString(d.LineTerminator)
	}

	columns := t.schema.FieldNames()
	writeLine(columns)
	fields := make([]string, len(columns))
	for i, row := range t.rows {
		for j, column := range columns {
			cell, err := renderCell(row[column])
			if err != nil {
				return &CellError{Row: i, Field: column, Kind: types.KindOf(row[column])}
			}
			fields[j] = cell
		}
		writeLine(fields)
	}
	return buf.Flush()
}

// ToCSV writes the CSV file at path
func (t *Tabular) ToCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

var errCompound = errors.New("compound value")

// renderCell returns the text of a scalar value. Value objects and
// single-element lists are unwrapped; lists and objects are not.
func renderCell(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case []interface{}:
		if len(v) == 1 {
			return renderCell(v[0])
		}
	case map[string]interface{}:
		if inner, has := v["@value"]; has {
			return renderCell(inner)
		}
	}
	return "", errCompound
}
