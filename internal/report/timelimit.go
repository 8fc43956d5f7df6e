package report

import (
	"fmt"
	"sort"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/category"
)

// TimeLimitCompliance reports, per court and broad case type, the configured
// limit, the number of concluded cases, how many of those concluded within
// the limit, and the compliance rate in percent (nil with no concluded cases).
// Only single-category matches carry a limit; everything else gets 0 days.
func TimeLimitCompliance(ds *cases.Dataset, limits map[string]int) (Table, error) {
	if err := ds.Require(cases.ColCourt, cases.ColBroadCaseType, cases.ColConcluded, cases.ColWithinTimeLimit); err != nil {
		return Table{}, fmt.Errorf("time limit compliance: %w", err)
	}

	type key struct{ court, label string }
	type acc struct {
		limit              int
		concluded, withinN int
	}
	groups := map[key]*acc{}
	for _, c := range ds.Cases {
		m := c.BroadCaseType
		if m.Kind() == category.NoMatch {
			continue
		}
		k := key{c.Court, m.Label()}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			if m.Kind() == category.OneMatch {
				a.limit = limits[m.Name()]
			}
			groups[k] = a
		}
		a.concluded += b2i(c.Concluded)
		a.withinN += b2i(c.WithinTimeLimit)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].court != keys[j].court {
			return keys[i].court < keys[j].court
		}
		return keys[i].label < keys[j].label
	})

	t := Table{
		Name: "pmmu_timelines",
		Columns: []string{cases.ColCourt, cases.ColBroadCaseType, "time_limit_days",
			cases.ColConcluded, cases.ColWithinTimeLimit, "compliance_rate"},
	}
	for _, k := range keys {
		a := groups[k]
		t.Rows = append(t.Rows, []any{k.court, k.label, a.limit, a.concluded, a.withinN, ratio(a.withinN, a.concluded)})
	}
	return t, nil
}

// UnmappedCaseTypes lists the case types that resolved to no broad case type
// or to several, with how many cases carry them. Rows are ordered by count,
// highest first.
func UnmappedCaseTypes(ds *cases.Dataset) (Table, error) {
	if err := ds.Require(cases.ColCaseType, cases.ColBroadCaseType); err != nil {
		return Table{}, fmt.Errorf("unmapped case types: %w", err)
	}

	type entry struct {
		caseType, status, candidates string
		n                            int
	}
	byType := map[string]*entry{}
	for _, c := range ds.Cases {
		m := c.BroadCaseType
		var status string
		switch m.Kind() {
		case category.NoMatch:
			status = "unmapped"
		case category.ManyMatches:
			status = "ambiguous"
		default:
			continue
		}
		e, ok := byType[c.CaseType]
		if !ok {
			e = &entry{caseType: c.CaseType, status: status, candidates: m.Label()}
			byType[c.CaseType] = e
		}
		e.n++
	}

	entries := make([]*entry, 0, len(byType))
	for _, e := range byType {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].caseType < entries[j].caseType
	})

	t := Table{
		Name:    "unmapped_case_types",
		Columns: []string{cases.ColCaseType, "status", "candidates", "count"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.caseType, e.status, e.candidates, e.n})
	}
	return t, nil
}
