// Package builtin contains the cleaning transformers used by the pipeline.
package builtin

import "github.com/namatanda/haki-data/pkg/records"

// Require removes any record missing a value for one of the specified fields.
type Require struct {
	Fields []string
}

// Apply returns a filtered slice containing only records that
// have all required fields present and non-empty.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			if rec.IsNull(f) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
