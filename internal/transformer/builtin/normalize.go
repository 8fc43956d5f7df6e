package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/namatanda/haki-data/pkg/records"
)

const nbsp = "\u00a0"

// Normalize trims every string cell, turns no-break spaces into spaces,
// composes the text to NFC and replaces empty cells and null markers with nil.
type Normalize struct {
	// NullValues are textual markers (after trimming) treated as null.
	NullValues []string
}

func (n Normalize) Apply(in []records.Record) []records.Record {
	nulls := make(map[string]struct{}, len(n.NullValues))
	for _, v := range n.NullValues {
		nulls[v] = struct{}{}
	}
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
			if !norm.NFC.IsNormalString(s) {
				s = norm.NFC.String(s)
			}
			if _, isNull := nulls[s]; isNull || s == "" {
				r[k] = nil
				continue
			}
			r[k] = s
		}
	}
	return in
}
