// Package transformer defines the in-memory cleaning step applied to a loaded
// record set before dates are assembled and cases are classified.
package transformer

import (
	"log"

	"github.com/namatanda/haki-data/pkg/records"
)

// Transformer rewrites or filters a batch of records. Implementations may
// mutate records in place and reslice the input.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Func adapts a plain function to Transformer.
type Func func([]records.Record) []records.Record

// Apply calls f.
func (f Func) Apply(in []records.Record) []records.Record { return f(in) }

// Logged wraps t and logs the row count change under name.
func Logged(name string, t Transformer) Transformer {
	return Func(func(in []records.Record) []records.Record {
		before := len(in)
		out := t.Apply(in)
		if dropped := before - len(out); dropped > 0 {
			log.Printf("clean: %s dropped %d/%d rows", name, dropped, before)
		}
		return out
	})
}

// ApplyTable runs c over the rows of tbl and stores the result.
func (c Chain) ApplyTable(tbl *records.Table) {
	tbl.Rows = c.Apply(tbl.Rows)
}
