// Package records defines the generic, column-addressed row model shared by
// the readers, the cleaning transformers and the date assembler.
//
// A Record maps a column name to a cell value. A missing key and a nil value
// are both treated as a null cell. Readers only ever store strings; later
// stages may store typed values (for example civil.Date for assembled dates).
package records

import (
	"fmt"
	"strings"
)

// Record is a single row keyed by column name.
type Record map[string]any

// String returns the cell as a string and reports whether it was present and
// non-empty. Non-string values are formatted with fmt.Sprint.
func (r Record) String(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	default:
		return fmt.Sprint(t), true
	}
}

// IsNull reports whether the cell is missing, nil or the empty string.
func (r Record) IsNull(col string) bool {
	_, ok := r.String(col)
	return !ok
}

// Table is an in-memory record set with an explicit schema. Columns is the
// ordered list of known column names; rows may omit keys (null cells).
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is part of the table schema.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// AddColumn appends col to the schema if it is not already present.
func (t *Table) AddColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Require returns a *SchemaError naming every column of cols that is absent
// from the schema, or nil when all are present.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Append concatenates other onto t, extending the schema with any columns t
// does not know yet. Rows are shared, not copied.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		t.AddColumn(c)
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// Set assigns v to col on every row produced by fn and registers the column.
// It is a convenience for stages that derive a whole column at once.
func (t *Table) Set(col string, fn func(Record) any) {
	t.AddColumn(col)
	for _, r := range t.Rows {
		r[col] = fn(r)
	}
}

// canonicalName lowercases a header and replaces spaces with underscores.
func canonicalName(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// CanonicalHeader maps a raw header to its column name: an explicit mapping
// wins, otherwise the header is lowercased and spaces become underscores.
func CanonicalHeader(h string, mapping map[string]string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	if mapped, ok := mapping[h]; ok && mapped != "" {
		return mapped
	}
	return canonicalName(h)
}
