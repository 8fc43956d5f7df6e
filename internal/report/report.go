// Package report aggregates a classified case dataset into the named summary
// tables: outcome pivots per court and broad case type, productivity,
// adjournment rates, monthly and quarterly rollups, time-limit compliance and
// the list of case types that could not be mapped.
//
// Every function reads the dataset and never mutates it. Cells are string,
// int, float64 or nil; nil marks an undefined ratio.
package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golang-sql/civil"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/pkg/records"
)

// ErrInvalidWindow is returned when a window starts after it ends.
var ErrInvalidWindow = errors.New("invalid date window")

// Table is a named, rectangular result.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Column returns the index of col, or -1.
func (t Table) Column(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Window is an inclusive date range.
type Window struct {
	Start civil.Date
	End   civil.Date
}

// Validate returns ErrInvalidWindow when Start is after End.
func (w Window) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// Contains reports whether d falls within the window, bounds included.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

func requireBool(ds *cases.Dataset, col string) error {
	if !cases.IsBoolColumn(col) {
		return fmt.Errorf("%q is not a boolean column: %w", col, &records.SchemaError{Missing: []string{col}})
	}
	return ds.Require(col)
}

// pivot accumulates counts into a row-key × column-key matrix.
type pivot struct {
	counts map[string]map[string]int
	cols   map[string]struct{}
}

func newPivot() *pivot {
	return &pivot{counts: map[string]map[string]int{}, cols: map[string]struct{}{}}
}

func (p *pivot) add(row, col string, n int) {
	m, ok := p.counts[row]
	if !ok {
		m = map[string]int{}
		p.counts[row] = m
	}
	m[col] += n
	p.cols[col] = struct{}{}
}

// table renders the pivot with sorted rows. fixed columns are always emitted
// in the given order; when fixed is nil the observed columns are sorted.
func (p *pivot) table(name, rowHeader string, fixed []string) Table {
	cols := fixed
	if cols == nil {
		cols = sortedKeys(p.cols)
	}
	t := Table{Name: name, Columns: append([]string{rowHeader}, cols...)}
	for _, row := range sortedKeys(p.counts) {
		r := make([]any, 0, len(cols)+1)
		r = append(r, row)
		for _, c := range cols {
			r = append(r, p.counts[row][c])
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ratio returns num/den*100, or nil when den is zero.
func ratio(num, den int) any {
	if den == 0 {
		return nil
	}
	return float64(num) / float64(den) * 100
}
