package report

import (
	"fmt"
	"log"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/category"
)

// OutcomeByCourt counts, per court and broad case type, the cases whose
// activity date falls in w and whose boolean column is true. Missing
// combinations are 0. Cases with no broad case type are left out; they are
// listed by UnmappedCaseTypes. Ambiguous types appear under their joined
// label.
func OutcomeByCourt(ds *cases.Dataset, w Window, column string) (Table, error) {
	if err := w.Validate(); err != nil {
		return Table{}, err
	}
	if err := ds.Require(cases.ColCourt, cases.ColBroadCaseType, cases.ColActivityDate); err != nil {
		return Table{}, fmt.Errorf("outcome by court: %w", err)
	}
	if err := requireBool(ds, column); err != nil {
		return Table{}, fmt.Errorf("outcome by court: %w", err)
	}

	p := newPivot()
	matched := 0
	for _, c := range ds.Cases {
		if c.ActivityDate == nil || !w.Contains(*c.ActivityDate) {
			continue
		}
		if v, _ := c.Bool(column); !v {
			continue
		}
		if c.BroadCaseType.Kind() == category.NoMatch {
			continue
		}
		p.add(c.Court, c.BroadCaseType.Label(), 1)
		matched++
	}
	if matched == 0 {
		log.Printf("report: WARNING no %s cases between %s and %s", column, w.Start, w.End)
	}
	return p.table(column+"_by_court", cases.ColCourt, nil), nil
}

// Productivity counts concluded cases per court by productivity category.
// Both Merit and Non_Merit columns are always present, so that per court they
// add up to the number of concluded cases.
func Productivity(ds *cases.Dataset) (Table, error) {
	if err := ds.Require(cases.ColCourt, cases.ColProductivity); err != nil {
		return Table{}, fmt.Errorf("productivity: %w", err)
	}
	p := newPivot()
	for _, c := range ds.Cases {
		if c.Productivity == cases.NoProductivity {
			continue
		}
		p.add(c.Court, c.Productivity.Label(), 1)
	}
	return p.table("court_productivity", cases.ColCourt,
		[]string{cases.Merit.Label(), cases.NonMerit.Label()}), nil
}
