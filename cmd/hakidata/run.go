package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource"
	"github.com/namatanda/haki-data/internal/export"
	"github.com/namatanda/haki-data/internal/ingest"
	"github.com/namatanda/haki-data/internal/metrics"
	"github.com/namatanda/haki-data/internal/parser"
	"github.com/namatanda/haki-data/internal/pipeline"
	"github.com/namatanda/haki-data/internal/probe"
	"github.com/namatanda/haki-data/internal/report"
	"github.com/namatanda/haki-data/internal/storage"
	"github.com/namatanda/haki-data/pkg/records"
)

// Test seams.
var (
	newRepositoryFn = storage.New
	readerFn        = parser.New
)

// execute loads, analyzes and exports one run described by p.
func execute(ctx context.Context, p config.Pipeline) (*pipeline.Result, error) {
	opts, err := pipeline.OptionsFrom(p)
	if err != nil {
		return nil, err
	}

	tbl, err := load(ctx, p)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(tbl, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = write(ctx, p.Output, res.Tables)
	metrics.RecordStep(p.Job, "export", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func load(ctx context.Context, p config.Pipeline) (tbl *records.Table, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(p.Job, "ingest", err, time.Since(start)) }()

	paths, err := datasource.Paths(p.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	read, err := readerFn(p.Parser)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	tbl, st, err := ingest.LoadAll(ctx, paths, read, ingest.Options{
		Workers:   p.Runtime.ReaderWorkers,
		CourtFrom: p.Source.CourtFrom,
	})
	if err != nil {
		return nil, err
	}
	if st.Failed == st.Files {
		return nil, fmt.Errorf("ingest: none of %d input files could be read", st.Files)
	}
	metrics.RecordRows(p.Job, "failed_files", int64(st.Failed))
	return tbl, nil
}

// write sends the tables to every configured destination.
func write(ctx context.Context, out config.Output, tables []report.Table) error {
	if out.Dir != "" {
		if err := export.WriteCSV(out.Dir, tables); err != nil {
			return err
		}
		log.Printf("export: %d tables written to %s", len(tables), out.Dir)
	}
	if out.Workbook != "" {
		if err := export.WriteWorkbook(out.Workbook, tables); err != nil {
			return err
		}
		log.Printf("export: workbook %s", out.Workbook)
	}
	if out.Storage.Kind != "" {
		repo, err := newRepositoryFn(ctx, storage.Config{Kind: out.Storage.Kind, DSN: out.Storage.DSN})
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		defer repo.Close()
		if err := export.Store(ctx, repo, out.Storage.TablePrefix, tables); err != nil {
			return err
		}
		log.Printf("export: %d tables stored in %s", len(tables), out.Storage.Kind)
	}
	return nil
}

// probeInputs profiles every input file of p and writes one report per file
// to w. It reports whether all files carry the columns a run needs.
func probeInputs(ctx context.Context, p config.Pipeline, w io.Writer) (bool, error) {
	paths, err := datasource.Paths(p.Source)
	if err != nil {
		return false, fmt.Errorf("source: %w", err)
	}
	read, err := readerFn(p.Parser)
	if err != nil {
		return false, fmt.Errorf("parser: %w", err)
	}

	expected := expectedColumns(p)
	ok := true
	for _, path := range paths {
		rep, err := probe.Probe(ctx, path, read, expected)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "# %s (%d rows)\n", rep.Path, rep.Rows)
		if err := rep.WriteCSV(w); err != nil {
			return false, err
		}
		ok = ok && rep.OK()
	}
	return ok, nil
}

// expectedColumns lists the raw columns a run requires. Optional date parts
// are left out, and the court column is only expected when it is not derived
// from the file path.
func expectedColumns(p config.Pipeline) []string {
	cols := slices.Clone(p.Clean.Required)
	for _, dc := range pipeline.DateColumns {
		if dc.Optional {
			continue
		}
		cols = append(cols, dc.Parts.Columns()...)
	}
	cols = append(cols, cases.ColCaseType, cases.ColOutcome, cases.ColComingFor, cases.ColReasonAdj)
	if p.Source.CourtFrom == "" || p.Source.CourtFrom == "column" {
		cols = append(cols, cases.ColCourt)
	}

	seen := make(map[string]bool, len(cols))
	out := cols[:0]
	for _, c := range cols {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
