package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/namatanda/haki-data/pkg/records"
)

// DeDup collapses duplicate records. Supported policies:
//
//   - "exact"        : drop records whose every cell equals an earlier record
//   - "keep-first"   : per key, keep the earliest occurrence
//   - "keep-last"    : per key, keep the latest occurrence (default with Keys)
//   - "most-complete": per key, keep the record with the most non-empty
//     fields; ties break by keep-last
//
// Key-based policies build a record's key from the configured fields as
// strings (nil -> "\x00"); records missing a key field pass through. Run
// DeDup after Normalize so that empty values compare equal.
type DeDup struct {
	// Keys are the fields that form the business key. Ignored by "exact".
	Keys []string

	Policy string

	// PreferFields weigh more heavily in "most-complete" selection.
	PreferFields []string
}

// Apply executes the de-duplication. Surviving records keep their input order.
func (d DeDup) Apply(in []records.Record) []records.Record {
	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "exact" {
		return exactDedup(in)
	}
	if len(in) == 0 || len(d.Keys) == 0 || policy == "none" {
		return in
	}
	if policy == "" {
		policy = "keep-last"
	}

	type slot struct {
		rec   records.Record
		index int
		score int
	}
	winners := make(map[string]slot, len(in))

	prefer := make(map[string]struct{}, len(d.PreferFields))
	for _, f := range d.PreferFields {
		prefer[f] = struct{}{}
	}

	keyOf := func(r records.Record) (string, bool) {
		var b strings.Builder
		for _, k := range d.Keys {
			v, ok := r[k]
			if !ok {
				return "", false
			}
			if b.Len() > 0 {
				b.WriteByte('\x1f')
			}
			writeCell(&b, v)
		}
		return b.String(), true
	}

	scoreOf := func(r records.Record) int {
		score, bonus := 0, 0
		for k := range r {
			if r.IsNull(k) {
				continue
			}
			score++
			if _, ok := prefer[k]; ok {
				bonus++
			}
		}
		return score*10 + bonus
	}

	for i, r := range in {
		key, ok := keyOf(r)
		if !ok {
			continue
		}
		switch policy {
		case "keep-first":
			if _, exists := winners[key]; !exists {
				winners[key] = slot{rec: r, index: i}
			}
		case "most-complete":
			s := slot{rec: r, index: i, score: scoreOf(r)}
			if prev, exists := winners[key]; !exists {
				winners[key] = s
			} else if s.score > prev.score || (s.score == prev.score && s.index > prev.index) {
				winners[key] = s
			}
		default: // "keep-last"
			winners[key] = slot{rec: r, index: i}
		}
	}

	keep := make(map[int]bool, len(winners))
	for _, s := range winners {
		keep[s.index] = true
	}
	out := make([]records.Record, 0, len(winners))
	for i, r := range in {
		if keep[i] {
			out = append(out, r)
			continue
		}
		if _, ok := keyOf(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

// exactDedup keeps the first occurrence of every distinct record. Records are
// bucketed by the xxh3 hash of their canonical encoding; encodings are only
// compared on a hash hit.
func exactDedup(in []records.Record) []records.Record {
	seen := make(map[uint64][]string, len(in))
	out := in[:0]
	for _, r := range in {
		enc := canonical(r)
		h := xxh3.HashString(enc)
		dup := false
		for _, prev := range seen[h] {
			if prev == enc {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], enc)
		out = append(out, r)
	}
	return out
}

// canonical encodes the non-null cells of r in column name order. A missing
// key and a nil value encode the same way.
func canonical(r records.Record) string {
	keys := make([]string, 0, len(r))
	for k, v := range r {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x1e')
		writeCell(&b, r[k])
		b.WriteByte('\x1f')
	}
	return b.String()
}

func writeCell(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteByte('\x00')
	case string:
		b.WriteString(t)
	default:
		b.WriteString(fmt.Sprint(t))
	}
}
