package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/italia/vocabtools/datapackage"
)

// ErrUnterminatedQuote is returned for a quoted field left open at EOF
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// parseCSV splits r into records. Lines starting with the comment
// character and empty lines are skipped; CR, LF and CRLF all end a record.
func parseCSV(r io.Reader, d *datapackage.Dialect) ([][]string, error) {
	d = d.Resolve()
	delimiter, quote := d.Comma(), d.Quote()
	comment := []rune(d.CommentChar)[0]
	in := bufio.NewReader(r)

	var (
		records [][]string
		record  []string
		field   strings.Builder
		quoted  bool
		started bool
		line    = 1
	)
	endField := func() {
		record = append(record, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		records = append(records, record)
		record, started = nil, false
	}

	for {
		c, _, err := in.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if quoted {
			if c != quote {
				if c == '\n' {
					line++
				}
				field.WriteRune(c)
				continue
			}
			next, _, err := in.ReadRune()
			if err == nil && next == quote {
				field.WriteRune(quote)
				continue
			}
			quoted = false
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, err
			}
			c = next
		} else if !started {
			switch c {
			case comment:
				if _, err := in.ReadString('\n'); err != nil && err != io.EOF {
					return nil, err
				}
				line++
				continue
			case '\r', '\n':
				if c == '\n' {
					line++
				}
				continue
			}
		}

		started = true
		switch c {
		case quote:
			quoted = true
		case delimiter:
			endField()
		case '\r':
			if next, _, err := in.ReadRune(); err == nil && next != '\n' {
				in.UnreadRune()
			}
			line++
			endRecord()
		case '\n':
			line++
			endRecord()
		default:
			field.WriteRune(c)
		}
	}

	if quoted {
		return nil, fmt.Errorf("line %d: %w", line, ErrUnterminatedQuote)
	}
	if started {
		endRecord()
	}
	return records, nil
}

// DecodeRows reads a CSV with a header row and casts every cell to the
// type of its schema field. Empty cells are omitted from the rows. All
// problems are reported together in a *datapackage.SchemaValidationError.
func DecodeRows(r io.Reader, schema *datapackage.Schema, d *datapackage.Dialect) ([]Row, error) {
	if schema == nil {
		return nil, ErrNoSchema
	}
	records, err := parseCSV(r, d)
	if err != nil {
		return nil, &datapackage.SchemaValidationError{Messages: []string{err.Error()}}
	}
	if len(records) == 0 {
		return nil, &datapackage.SchemaValidationError{Messages: []string{"missing header row"}}
	}

	names := schema.FieldNames()
	header := records[0]
	if strings.Join(header, "\x00") != strings.Join(names, "\x00") {
		return nil, &datapackage.SchemaValidationError{Messages: []string{
			fmt.Sprintf("header %v does not match the schema fields %v", header, names),
		}}
	}

	var messages []string
	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(names) {
			messages = append(messages, fmt.Sprintf("row %d: %d field(s), expected %d", i+1, len(record), len(names)))
			continue
		}
		row := Row{}
		for j, cell := range record {
			if cell == "" {
				continue
			}
			field := schema.Fields[j]
			value, err := castCell(field.Type, cell)
			if err != nil {
				messages = append(messages, fmt.Sprintf("row %d: field %q: %v", i+1, field.Name, err))
				continue
			}
			row[field.Name] = value
		}
		rows = append(rows, row)
	}

	if len(messages) > 0 {
		return rows, &datapackage.SchemaValidationError{Messages: messages}
	}
	return rows, nil
}

// ReadRows reads the CSV file of a resource. Its path is relative to
// basepath.
func ReadRows(resource datapackage.Resource, basepath string) ([]Row, error) {
	if resource.Schema == nil {
		return nil, ErrNoSchema
	}
	f, err := os.Open(filepath.Join(basepath, filepath.FromSlash(resource.Path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRows(f, resource.Schema, resource.Dialect)
}

// castCell returns integers as float64 and booleans as bool. Other types
// are checked and kept in their lexical form.
func castCell(fieldType, cell string) (interface{}, error) {
	switch fieldType {
	case datapackage.TypeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", cell)
		}
		return float64(i), nil
	case datapackage.TypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return nil, fmt.Errorf("%q is not a number", cell)
		}
	case datapackage.TypeBoolean:
		switch cell {
		case "true", "True", "TRUE", "1":
			return true, nil
		case "false", "False", "FALSE", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", cell)
	case datapackage.TypeDate:
		if _, err := time.Parse("2006-01-02", cell); err != nil {
			return nil, fmt.Errorf("%q is not a date", cell)
		}
	case datapackage.TypeDateTime:
		if _, err := time.Parse(time.RFC3339, cell); err != nil {
			if _, err := time.Parse("2006-01-02T15:04:05", cell); err != nil {
				return nil, fmt.Errorf("%q is not a datetime", cell)
			}
		}
	case datapackage.TypeYear:
		if _, err := strconv.Atoi(cell); err != nil {
			return nil, fmt.Errorf("%q is not a year", cell)
		}
	}
	return cell, nil
}
