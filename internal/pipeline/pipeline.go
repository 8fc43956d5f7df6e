// Package pipeline sequences one analysis run over a loaded record set:
// cleaning, date assembly, classification and aggregation into the named
// result tables.
package pipeline

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/classify"
	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/dates"
	"github.com/namatanda/haki-data/internal/metrics"
	"github.com/namatanda/haki-data/internal/report"
	"github.com/namatanda/haki-data/internal/transformer/builtin"
	"github.com/namatanda/haki-data/pkg/records"
)

// Result table names, in the order Analyze produces them.
const (
	TableFiledCases        = "filed_cases"
	TableResolvedCases     = "resolved_cases"
	TableMonthlyStats      = "monthly_stats"
	TablePMMUTimelines     = "pmmu_timelines"
	TableCourtProductivity = "court_productivity"
	TableAdjournedStats    = "adjourned_stats"
	TableAdjournedReasons  = "adjourned_reasons"
	TableQuarterlyStats    = "quarterly_stats"
	TableUnmappedTypes     = "unmapped_case_types"
)

// DateColumns are the three assembled dates and their source part columns.
// An optional date is skipped when none of its parts are in the schema; a
// partial set of parts is still a schema error.
var DateColumns = []struct {
	Name     string
	Parts    dates.Parts
	Optional bool
}{
	{cases.ColFiledDate, dates.Parts{Year: "filed_yyyy", Month: "filed_mon", Day: "filed_dd"}, false},
	{cases.ColActivityDate, dates.Parts{Year: "date_yyyy", Month: "date_mon", Day: "date_dd"}, false},
	{cases.ColNextDate, dates.Parts{Year: "next_yyyy", Month: "next_mon", Day: "next_dd"}, true},
}

// Options carries everything a run needs besides the input table.
type Options struct {
	// Job labels metrics.
	Job       string
	Clean     config.Clean
	Reference config.Reference
	Window    report.Window
}

// OptionsFrom builds run options from a decoded pipeline file.
func OptionsFrom(p config.Pipeline) (Options, error) {
	start, end, err := p.Analysis.Period()
	if err != nil {
		return Options{}, fmt.Errorf("analysis: %w", err)
	}
	opts := Options{
		Job:    p.Job,
		Clean:  p.Clean,
		Window: report.Window{Start: start, End: end},
	}
	if p.Reference != nil {
		opts.Reference = *p.Reference
	} else {
		opts.Reference = config.DefaultReference()
	}
	return opts, opts.Window.Validate()
}

// Stats counts what happened to the rows of a run.
type Stats struct {
	Read    int
	Cleaned int
	// Dates holds the assembly counts keyed by assembled column.
	Dates  map[string]dates.Stats
	Counts classify.Counts
}

// Dropped is the number of rows removed by cleaning.
func (s Stats) Dropped() int { return s.Read - s.Cleaned }

// Result is the outcome of Run.
type Result struct {
	Dataset *cases.Dataset
	Stats   Stats
	Tables  []report.Table
}

// Table returns the result table called name.
func (r *Result) Table(name string) (report.Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return report.Table{}, false
}

// Prepare cleans tbl in place, assembles the dates and classifies every case.
// A mandatory column missing from the schema is a *records.SchemaError.
func Prepare(tbl *records.Table, opts Options) (*cases.Dataset, Stats, error) {
	st := Stats{Read: tbl.Len(), Dates: map[string]dates.Stats{}}

	if err := step(opts.Job, "clean", func() error {
		if err := tbl.Require(opts.Clean.Required...); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		builtin.Cleaning(opts.Clean).ApplyTable(tbl)
		st.Cleaned = tbl.Len()
		log.Printf("clean: kept %d/%d rows", st.Cleaned, st.Read)
		return nil
	}); err != nil {
		return nil, st, err
	}
	metrics.RecordRows(opts.Job, "read", int64(st.Read))
	metrics.RecordRows(opts.Job, "dropped", int64(st.Dropped()))

	if err := step(opts.Job, "dates", func() error {
		for _, dc := range DateColumns {
			if dc.Optional && !slices.ContainsFunc(dc.Parts.Columns(), tbl.HasColumn) {
				log.Printf("dates: %s parts absent, skipping", dc.Name)
				continue
			}
			ds, err := dates.AddDate(tbl, dc.Parts, dc.Name)
			if err != nil {
				return err
			}
			st.Dates[dc.Name] = ds
			metrics.RecordRows(opts.Job, "invalid_"+dc.Name, int64(ds.Invalid()))
		}
		return nil
	}); err != nil {
		return nil, st, err
	}

	var ds *cases.Dataset
	err := step(opts.Job, "classify", func() error {
		var err error
		if ds, err = cases.FromTable(tbl); err != nil {
			return fmt.Errorf("cases: %w", err)
		}
		st.Counts, err = classify.New(opts.Reference).ClassifyAll(ds)
		return err
	})
	if err != nil {
		return nil, st, err
	}

	metrics.RecordRows(opts.Job, "criminal", int64(st.Counts.Criminal))
	metrics.RecordRows(opts.Job, "civil", int64(st.Counts.Civil))
	metrics.RecordRows(opts.Job, "unmapped", int64(st.Counts.Unmapped+st.Counts.Ambiguous))
	metrics.RecordRows(opts.Job, "concluded", int64(st.Counts.Concluded))
	metrics.RecordRows(opts.Job, "registered", int64(st.Counts.Registered))
	return ds, st, nil
}

// Analyze builds the result tables of a classified dataset.
func Analyze(ds *cases.Dataset, opts Options) ([]report.Table, error) {
	var out []report.Table
	add := func(name string, t report.Table, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		t.Name = name
		out = append(out, t)
		metrics.RecordTable(opts.Job, name, t.Len())
		return nil
	}

	err := step(opts.Job, "aggregate", func() error {
		t, err := report.OutcomeByCourt(ds, opts.Window, cases.ColRegistered)
		if err := add(TableFiledCases, t, err); err != nil {
			return err
		}
		t, err = report.OutcomeByCourt(ds, opts.Window, cases.ColConcluded)
		if err := add(TableResolvedCases, t, err); err != nil {
			return err
		}
		t, err = report.MonthlyStats(ds)
		if err := add(TableMonthlyStats, t, err); err != nil {
			return err
		}
		t, err = report.TimeLimitCompliance(ds, opts.Reference.TimeLimits)
		if err := add(TablePMMUTimelines, t, err); err != nil {
			return err
		}
		t, err = report.Productivity(ds)
		if err := add(TableCourtProductivity, t, err); err != nil {
			return err
		}
		stats, reasons, err := report.Adjournment(ds)
		if err := add(TableAdjournedStats, stats, err); err != nil {
			return err
		}
		if err := add(TableAdjournedReasons, reasons, nil); err != nil {
			return err
		}
		t, err = report.QuarterlyStats(ds)
		if err := add(TableQuarterlyStats, t, err); err != nil {
			return err
		}
		t, err = report.UnmappedCaseTypes(ds)
		return add(TableUnmappedTypes, t, err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Run is Prepare followed by Analyze.
func Run(tbl *records.Table, opts Options) (*Result, error) {
	ds, st, err := Prepare(tbl, opts)
	if err != nil {
		return nil, err
	}
	tables, err := Analyze(ds, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: ds, Stats: st, Tables: tables}, nil
}

// step times fn and records it under name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}
