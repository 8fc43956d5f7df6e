// Package csv reads a court return exported as CSV into a records.Table.
// Rows that fail to parse or have the wrong width are skipped and counted
// rather than aborting the file.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource"
	"github.com/namatanda/haki-data/pkg/records"
)

// Options configures the CSV reader. All fields are optional.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// LazyQuotes relaxes quote handling in encoding/csv.
	LazyQuotes bool

	// ExpectedFields, when > 0, enforces a fixed field count per record.
	// Without a header it also names the columns col_0..col_N-1.
	ExpectedFields int

	// SkipRows drops this many leading lines before the header.
	SkipRows int

	// HeaderMap maps source header names to column names. Unmapped headers
	// are lowercased with spaces turned into underscores.
	HeaderMap map[string]string
}

// OptionsFrom reads CSV options from a pipeline's parser options.
func OptionsFrom(o config.Options) Options {
	return Options{
		HasHeader:      o.Bool("has_header", true),
		Comma:          o.Rune("comma", ','),
		TrimSpace:      o.Bool("trim_space", true),
		LazyQuotes:     o.Bool("lazy_quotes", false),
		ExpectedFields: o.Int("fields_per_record", 0),
		SkipRows:       o.Int("skip_rows", 0),
		HeaderMap:      o.StringMap("header_map"),
	}
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// logLimit caps per-file skip messages.
const logLimit = 400

// Parse consumes CSV records from r and returns them as a table together
// with the number of skipped rows. Empty cells are stored as nil.
func (p *Parser) Parse(r io.Reader) (*records.Table, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	for i := 0; i < p.opt.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			if err == io.EOF {
				return records.NewTable(), 0, nil
			}
			return nil, 0, fmt.Errorf("skip csv preamble: %w", err)
		}
	}

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err == io.EOF {
			return records.NewTable(), 0, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = make([]string, len(h))
		for i, col := range h {
			headers[i] = records.CanonicalHeader(col, p.opt.HeaderMap)
		}
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	tbl := records.NewTable(headers...)
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if isBlank(row) {
			continue
		}

		want := len(headers)
		if p.opt.ExpectedFields > 0 {
			want = p.opt.ExpectedFields
		}
		if want > 0 && len(row) != want {
			if skipped < logLimit {
				log.Printf("csv: skipping row %d: incorrect number of fields (expected %d, got %d)", line, want, len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			key := keyFor(i, headers)
			if i >= len(headers) {
				tbl.AddColumn(key)
			}
			rec[key] = emptyToNil(val)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadTable opens src and parses it with opts. Skipped rows are logged.
func ReadTable(ctx context.Context, src datasource.Source, opts Options) (*records.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tbl, skipped, err := NewParser(opts).Parse(rc)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("csv: %d rows skipped", skipped)
	}
	return tbl, nil
}
