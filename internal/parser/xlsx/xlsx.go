// Package xlsx reads court returns spreadsheets into a records.Table.
//
// Returns are filed on a fixed template whose first rows carry a title block.
// The reader skips those rows, then names columns either from the header row
// or positionally from a configured column list.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource"
	"github.com/namatanda/haki-data/pkg/records"
)

// Options configures the spreadsheet reader.
type Options struct {
	// Sheet names the worksheet; empty selects the first sheet.
	Sheet string

	// SkipRows drops this many rows before the header row.
	SkipRows int

	// HasHeader consumes one row as the header after SkipRows.
	HasHeader bool

	// Columns names the columns positionally. When set, the header row (if
	// any) is read but its text is ignored.
	Columns []string

	// DropColumns are removed from every row and from the schema.
	DropColumns []string

	// HeaderMap maps header text to column names when Columns is empty.
	HeaderMap map[string]string
}

// OptionsFrom reads spreadsheet options from a pipeline's parser options.
// The "columns" key accepts a list of names or the string "template" for the
// standard court returns layout.
func OptionsFrom(o config.Options) Options {
	opts := Options{
		Sheet:       o.String("sheet", ""),
		SkipRows:    o.Int("skip_rows", 0),
		HasHeader:   o.Bool("has_header", true),
		DropColumns: o.StringSlice("drop_columns"),
		HeaderMap:   o.StringMap("header_map"),
	}
	if o.String("columns", "") == "template" {
		opts.Columns = config.TemplateColumns
	} else {
		opts.Columns = o.StringSlice("columns")
	}
	return opts
}

// ReadTable opens src as a workbook and reads one sheet.
func ReadTable(ctx context.Context, src datasource.Source, opts Options) (*records.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return FromRows(rows, opts), nil
}

// FromRows builds a table from raw sheet rows. Short rows leave trailing
// cells null; blank rows are dropped.
func FromRows(rows [][]string, opts Options) *records.Table {
	if opts.SkipRows >= len(rows) {
		return records.NewTable(opts.Columns...)
	}
	rows = rows[opts.SkipRows:]

	var headers []string
	if opts.HasHeader && len(rows) > 0 {
		if len(opts.Columns) == 0 {
			headers = make([]string, len(rows[0]))
			for i, h := range rows[0] {
				headers[i] = records.CanonicalHeader(h, opts.HeaderMap)
			}
		}
		rows = rows[1:]
	}
	if len(opts.Columns) > 0 {
		headers = opts.Columns
	}

	drop := make(map[string]bool, len(opts.DropColumns))
	for _, c := range opts.DropColumns {
		drop[c] = true
	}
	var cols []string
	for _, h := range headers {
		if h != "" && !drop[h] {
			cols = append(cols, h)
		}
	}
	tbl := records.NewTable(cols...)

	for _, row := range rows {
		rec := make(records.Record, len(cols))
		blank := true
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" || drop[headers[i]] {
				continue
			}
			v := strings.TrimSpace(cell)
			if v == "" {
				continue
			}
			rec[headers[i]] = v
			blank = false
		}
		if blank {
			continue
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl
}
