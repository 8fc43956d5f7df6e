package report

import (
	"fmt"
	"sort"

	"github.com/namatanda/haki-data/internal/cases"
)

// Adjournment returns the per-court adjournment rates and the breakdown of
// adjourned events by reason.
//
// The rate of a court with no adjournable events is nil. The breakdown lists
// every (court, reason) pair with a recorded reason; its count is the number
// of those events that were adjourned.
func Adjournment(ds *cases.Dataset) (stats, reasons Table, err error) {
	if err := ds.Require(cases.ColCourt, cases.ColReasonAdj, cases.ColAdjournable, cases.ColAdjourned); err != nil {
		return Table{}, Table{}, fmt.Errorf("adjournment: %w", err)
	}

	type totals struct{ adjourned, adjournable int }
	type reasonKey struct{ court, reason string }
	perCourt := map[string]*totals{}
	perReason := map[reasonKey]int{}

	for _, c := range ds.Cases {
		t, ok := perCourt[c.Court]
		if !ok {
			t = &totals{}
			perCourt[c.Court] = t
		}
		t.adjourned += b2i(c.Adjourned)
		t.adjournable += b2i(c.Adjournable)
		if c.ReasonAdj != nil {
			perReason[reasonKey{c.Court, *c.ReasonAdj}] += b2i(c.Adjourned)
		}
	}

	stats = Table{
		Name:    "adjourned_stats",
		Columns: []string{cases.ColCourt, "total_adjourned", "total_adjournable", "adjourn_proportion"},
	}
	for _, court := range sortedKeys(perCourt) {
		t := perCourt[court]
		stats.Rows = append(stats.Rows, []any{court, t.adjourned, t.adjournable, ratio(t.adjourned, t.adjournable)})
	}

	keys := make([]reasonKey, 0, len(perReason))
	for k := range perReason {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].court != keys[j].court {
			return keys[i].court < keys[j].court
		}
		return keys[i].reason < keys[j].reason
	})
	reasons = Table{
		Name:    "adjourned_reasons",
		Columns: []string{cases.ColCourt, cases.ColReasonAdj, "count"},
	}
	for _, k := range keys {
		reasons.Rows = append(reasons.Rows, []any{k.court, k.reason, perReason[k]})
	}
	return stats, reasons, nil
}
