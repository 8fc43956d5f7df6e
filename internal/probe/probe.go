// Package probe profiles a returns file before a run: which columns the
// reader produced, how they look, and which columns the pipeline needs but
// cannot find.
package probe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/namatanda/haki-data/internal/parser"
	"github.com/namatanda/haki-data/pkg/records"
)

// Column describes one column of a probed file.
type Column struct {
	Name    string
	Type    string // integer, real, month, text
	NonNull int
	Sample  string // first non-null value
}

// Report is the profile of one file.
type Report struct {
	Path    string
	Rows    int
	Columns []Column
	// Missing lists the expected columns absent from the file.
	Missing []string
}

// OK reports whether every expected column is present.
func (r Report) OK() bool { return len(r.Missing) == 0 }

// Probe reads path with read and profiles the result against expected.
func Probe(ctx context.Context, path string, read parser.ReadFunc, expected []string) (Report, error) {
	tbl, err := read(ctx, path)
	if err != nil {
		return Report{}, fmt.Errorf("probe %s: %w", path, err)
	}
	rep := Profile(tbl, expected)
	rep.Path = path
	return rep, nil
}

// Profile describes every column of tbl in schema order.
func Profile(tbl *records.Table, expected []string) Report {
	rep := Report{Rows: tbl.Len()}
	for _, col := range tbl.Columns {
		c := Column{Name: col}
		var vals []string
		for _, r := range tbl.Rows {
			s, ok := r.String(col)
			if !ok {
				continue
			}
			if c.NonNull == 0 {
				c.Sample = s
			}
			c.NonNull++
			vals = append(vals, s)
		}
		c.Type = inferTypeForColumn(vals)
		rep.Columns = append(rep.Columns, c)
	}
	var se *records.SchemaError
	if err := tbl.Require(expected...); errors.As(err, &se) {
		rep.Missing = se.Missing
	}
	return rep
}

// WriteCSV renders the report as "column,type,non_null,sample" lines,
// followed by one "missing" line per absent expected column.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"column", "type", "non_null", "sample"}); err != nil {
		return err
	}
	for _, c := range r.Columns {
		if err := cw.Write([]string{c.Name, c.Type, strconv.Itoa(c.NonNull), c.Sample}); err != nil {
			return err
		}
	}
	for _, m := range r.Missing {
		if err := cw.Write([]string{m, "missing", "0", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// inferTypeForColumn requires every non-null value to satisfy the narrower
// type. Month names get their own type since the returns mix them with
// numeric months.
func inferTypeForColumn(values []string) string {
	if len(values) == 0 {
		return "text"
	}
	if allMatch(values, isInt) {
		return "integer"
	}
	if allMatch(values, isFloat) {
		return "real"
	}
	if allMatch(values, isMonth) {
		return "month"
	}
	return "text"
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// isFloat also accepts integers, so a column mixing "7" and "7.0" is real.
func isFloat(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isMonth(s string) bool {
	s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] || s == "sept" {
			return true
		}
	}
	return false
}
