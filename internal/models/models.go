package models

import "time"

// Column and field names used by the CSV and JSON contracts.
const (
	DescriptionColumn = "Description" // CSV input column (case-sensitive)
	CategoryColumn    = "Category"    // CSV output column, appended last
	DescriptionField  = "description" // JSON request field
	CategoryField     = "category"    // JSON response field
)

// Sentinel category values written in place of a real label.
const (
	CategoryClassificationError = "Classification Error"
	CategoryNoDescription       = "No Description"
)

// Ticket is one input row: column name to value, remembering column order.
// Set on a new column appends it after the existing ones.
type Ticket struct {
	fields []string
	values map[string]string
}

// NewTicket builds a ticket from parallel header/value slices. Values missing
// at the end of a short row are stored as empty strings. When a header name
// repeats, the later value wins.
func NewTicket(header, values []string) Ticket {
	t := Ticket{values: make(map[string]string, len(header))}
	for i, name := range header {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		t.Set(name, v)
	}
	return t
}

// Get returns the value for field and whether the field exists.
func (t Ticket) Get(field string) (string, bool) {
	v, ok := t.values[field]
	return v, ok
}

// Value returns the value for field, or "" if absent.
func (t Ticket) Value(field string) string {
	return t.values[field]
}

// Set stores value under field.
func (t *Ticket) Set(field, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[field]; !ok {
		t.fields = append(t.fields, field)
	}
	t.values[field] = value
}

// Fields returns the field names in first-seen order.
func (t Ticket) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// Values returns the row values in the order of header.
func (t Ticket) Values(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		out[i] = t.values[name]
	}
	return out
}

// Clone returns a deep copy so classification never mutates the caller's row.
func (t Ticket) Clone() Ticket {
	c := Ticket{fields: t.Fields(), values: make(map[string]string, len(t.values))}
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

// ClassificationRecord is the per-row outcome reported to CLI progress output.
type ClassificationRecord struct {
	Index       int
	Description string
	Category    string
	Outcome     Outcome
	Err         error
	Duration    time.Duration
}
