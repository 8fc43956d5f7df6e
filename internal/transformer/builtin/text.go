package builtin

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/namatanda/haki-data/pkg/records"
)

// TitleCase rewrites the string cells of Columns in title case.
type TitleCase struct {
	Columns []string
	caser   cases.Caser
}

// NewTitleCase returns a TitleCase for cols using English casing rules.
func NewTitleCase(cols ...string) *TitleCase {
	return &TitleCase{Columns: cols, caser: cases.Title(language.English)}
}

func (t *TitleCase) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, c := range t.Columns {
			if s, ok := r[c].(string); ok {
				r[c] = t.caser.String(s)
			}
		}
	}
	return in
}

// Replace substitutes exact cell values per column.
type Replace struct {
	// Values maps column -> raw value -> replacement.
	Values map[string]map[string]string
}

func (rp Replace) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for col, repl := range rp.Values {
			s, ok := r[col].(string)
			if !ok {
				continue
			}
			if to, hit := repl[s]; hit {
				r[col] = to
			}
		}
	}
	return in
}

// CourtName tidies the court column of returns exported per division:
// substrings in Map are replaced (longest first), optionally only the first
// word is kept, the configured Prefix is removed (case-insensitively) and
// whitespace is collapsed.
type CourtName struct {
	Column     string
	Map        map[string]string
	FirstToken bool
	Prefix     string
}

func (c CourtName) Apply(in []records.Record) []records.Record {
	col := c.Column
	if col == "" {
		col = "court"
	}
	for _, r := range in {
		s, ok := r[col].(string)
		if !ok {
			continue
		}
		r[col] = c.Clean(s)
	}
	return in
}

// Clean applies the court name rules to a single value.
func (c CourtName) Clean(s string) string {
	froms := make([]string, 0, len(c.Map))
	for from := range c.Map {
		if from != "" {
			froms = append(froms, from)
		}
	}
	sort.Slice(froms, func(i, j int) bool {
		if len(froms[i]) != len(froms[j]) {
			return len(froms[i]) > len(froms[j])
		}
		return froms[i] < froms[j]
	})
	for _, from := range froms {
		s = strings.ReplaceAll(s, from, c.Map[from])
	}
	if f := strings.Fields(s); c.FirstToken && len(f) > 0 {
		s = f[0]
	}
	s = strings.TrimSpace(s)
	if p := c.Prefix; p != "" && len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
		s = strings.TrimSpace(s[len(p):])
	}
	return strings.Join(strings.Fields(s), " ")
}
