// Package ticketcsv decodes ticket rows from CSV and writes them back with
// the category column appended.
package ticketcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ticketclassifier/internal/models"
)

// Table is a decoded CSV: the header in input order plus the rows.
type Table struct {
	Header []string
	Rows   []models.Ticket
}

// Decode reads a header line followed by data rows. Rows shorter than the
// header are padded with empty values; rows longer than the header are
// rejected. An input with no header line decodes to an empty table.
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", models.ErrMalformedCSV, err)
	}

	table := &Table{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMalformedCSV, err)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: record on line %d has %d fields, header has %d",
				models.ErrMalformedCSV, line, len(record), len(header))
		}
		table.Rows = append(table.Rows, models.NewTicket(header, record))
	}
	return table, nil
}

// DecodeString decodes CSV text already checked by util.CleanCSVBody.
func DecodeString(s string) (*Table, error) {
	return Decode(strings.NewReader(s))
}

// HasColumn reports whether name is one of the header fields (case-sensitive).
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// RequireColumn returns models.ErrMissingColumn when name is absent.
func (t *Table) RequireColumn(name string) error {
	if !t.HasColumn(name) {
		return fmt.Errorf("%w: %q not found in columns %v", models.ErrMissingColumn, name, t.Header)
	}
	return nil
}

// OutputHeader returns the input header with column appended last.
func OutputHeader(header []string, column string) []string {
	out := make([]string, 0, len(header)+1)
	out = append(out, header...)
	return append(out, column)
}

// Encode writes header and then one line per row, in order. Fields a row does
// not carry are written empty.
func Encode(w io.Writer, header []string, rows []models.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Values(header)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
