// Package ingest loads many return files concurrently and concatenates them
// into a single table.
package ingest

import (
	"context"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/namatanda/haki-data/internal/datasource"
	"github.com/namatanda/haki-data/internal/parser"
	"github.com/namatanda/haki-data/pkg/records"
)

// Options controls LoadAll.
type Options struct {
	// Workers bounds concurrent reads; <= 0 means GOMAXPROCS.
	Workers int

	// CourtFrom is "dir" or "filename" to overwrite the court column with a
	// name derived from each file's path. Other values leave it alone.
	CourtFrom string
}

// Stats summarizes a LoadAll call.
type Stats struct {
	Files  int
	Failed int
	Rows   int
}

// LoadAll reads every path with read using a bounded pool and returns the
// rows in path order. A file that fails to read is logged and contributes
// no rows. The only error returned is the context's.
func LoadAll(ctx context.Context, paths []string, read parser.ReadFunc, opts Options) (*records.Table, Stats, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*records.Table, len(paths))
	failed := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tbl, err := read(gctx, path)
			if err != nil {
				log.Printf("ingest: %s: %v", path, err)
				failed[i] = true
				return nil
			}
			if court := datasource.Court(path, opts.CourtFrom); court != "" {
				tbl.Set("court", func(records.Record) any { return court })
			}
			results[i] = tbl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	out := records.NewTable()
	st := Stats{Files: len(paths)}
	for i, tbl := range results {
		if failed[i] {
			st.Failed++
			continue
		}
		out.Append(tbl)
	}
	st.Rows = out.Len()
	log.Printf("ingest: %d files, %d failed, %d rows", st.Files, st.Failed, st.Rows)
	return out, st, nil
}
