package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/dates"
)

// MonthlyStats sums registered and concluded per court, activity month and
// case type. Cases without an activity date are skipped.
func MonthlyStats(ds *cases.Dataset) (Table, error) {
	if err := ds.Require(cases.ColCourt, cases.ColActivityDate, cases.ColCaseType,
		cases.ColRegistered, cases.ColConcluded); err != nil {
		return Table{}, fmt.Errorf("monthly stats: %w", err)
	}

	type key struct{ court, month, caseType string }
	type sums struct{ registered, concluded int }
	groups := map[key]*sums{}
	for _, c := range ds.Cases {
		if c.ActivityDate == nil {
			continue
		}
		k := key{c.Court, dates.Month(*c.ActivityDate), c.CaseType}
		s, ok := groups[k]
		if !ok {
			s = &sums{}
			groups[k] = s
		}
		s.registered += b2i(c.Registered)
		s.concluded += b2i(c.Concluded)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.court != b.court {
			return a.court < b.court
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.caseType < b.caseType
	})

	t := Table{
		Name:    "monthly_stats",
		Columns: []string{cases.ColCourt, "month", cases.ColCaseType, cases.ColRegistered, cases.ColConcluded},
	}
	for _, k := range keys {
		s := groups[k]
		t.Rows = append(t.Rows, []any{k.court, k.month, k.caseType, s.registered, s.concluded})
	}
	return t, nil
}

// QuarterlySum sums a boolean column per court and activity quarter into a
// table with columns court, quarter, cases_<column>.
func QuarterlySum(ds *cases.Dataset, column string) (Table, error) {
	if err := ds.Require(cases.ColCourt, cases.ColActivityDate); err != nil {
		return Table{}, fmt.Errorf("quarterly %s: %w", column, err)
	}
	if err := requireBool(ds, column); err != nil {
		return Table{}, fmt.Errorf("quarterly %s: %w", column, err)
	}

	type key struct{ court, quarter string }
	sums := map[key]int{}
	for _, c := range ds.Cases {
		if c.ActivityDate == nil {
			continue
		}
		v, _ := c.Bool(column)
		sums[key{c.Court, dates.Quarter(*c.ActivityDate)}] += b2i(v)
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].court != keys[j].court {
			return keys[i].court < keys[j].court
		}
		return keys[i].quarter < keys[j].quarter
	})

	t := Table{
		Name:    "quarterly_" + column,
		Columns: []string{cases.ColCourt, "quarter", "cases_" + column},
	}
	for _, k := range keys {
		t.Rows = append(t.Rows, []any{k.court, k.quarter, sums[k]})
	}
	return t, nil
}

// InnerJoin joins tables on the key columns. A row of the first table is kept
// only when every other table has a row with the same key; the first such row
// is used. Output columns are the keys followed by the non-key columns of each
// table in order. Row order follows the first table.
func InnerJoin(name string, keys []string, tables ...Table) (Table, error) {
	if len(tables) == 0 {
		return Table{Name: name, Columns: append([]string(nil), keys...)}, nil
	}

	keyIdx := make([][]int, len(tables))
	for ti, t := range tables {
		idx := make([]int, len(keys))
		for i, k := range keys {
			idx[i] = t.Column(k)
			if idx[i] < 0 {
				return Table{}, fmt.Errorf("join %s: table %q has no key column %q", name, t.Name, k)
			}
		}
		keyIdx[ti] = idx
	}

	out := Table{Name: name, Columns: append([]string(nil), keys...)}
	for ti, t := range tables {
		for ci, c := range t.Columns {
			if !isKey(keyIdx[ti], ci) {
				out.Columns = append(out.Columns, c)
			}
		}
	}

	lookups := make([]map[string][]any, len(tables))
	for ti := 1; ti < len(tables); ti++ {
		m := make(map[string][]any, len(tables[ti].Rows))
		for _, r := range tables[ti].Rows {
			k := rowKey(r, keyIdx[ti])
			if _, dup := m[k]; !dup {
				m[k] = r
			}
		}
		lookups[ti] = m
	}

rows:
	for _, first := range tables[0].Rows {
		k := rowKey(first, keyIdx[0])
		matched := make([][]any, len(tables))
		matched[0] = first
		for ti := 1; ti < len(tables); ti++ {
			r, ok := lookups[ti][k]
			if !ok {
				continue rows
			}
			matched[ti] = r
		}
		row := make([]any, 0, len(out.Columns))
		for _, ki := range keyIdx[0] {
			row = append(row, first[ki])
		}
		for ti, r := range matched {
			for ci, v := range r {
				if !isKey(keyIdx[ti], ci) {
					row = append(row, v)
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func isKey(idx []int, col int) bool {
	for _, i := range idx {
		if i == col {
			return true
		}
	}
	return false
}

func rowKey(r []any, idx []int) string {
	parts := make([]string, len(idx))
	for i, ci := range idx {
		parts[i] = fmt.Sprint(r[ci])
	}
	return strings.Join(parts, "\x1f")
}

// QuarterlyStats inner-joins the quarterly sums of adjourned, adjournable,
// concluded and registered on (court, quarter).
func QuarterlyStats(ds *cases.Dataset) (Table, error) {
	cols := []string{cases.ColAdjourned, cases.ColAdjournable, cases.ColConcluded, cases.ColRegistered}
	parts := make([]Table, 0, len(cols))
	for _, col := range cols {
		t, err := QuarterlySum(ds, col)
		if err != nil {
			return Table{}, err
		}
		parts = append(parts, t)
	}
	return InnerJoin("quarterly_stats", []string{cases.ColCourt, "quarter"}, parts...)
}
