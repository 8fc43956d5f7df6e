// Package parser selects the reader for an input file.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource/file"
	"github.com/namatanda/haki-data/internal/parser/csv"
	"github.com/namatanda/haki-data/internal/parser/xlsx"
	"github.com/namatanda/haki-data/pkg/records"
)

// ReadFunc reads one input file into a table.
type ReadFunc func(ctx context.Context, path string) (*records.Table, error)

// New returns a ReadFunc for the configured parser. Kind "auto" chooses by
// file extension: .xlsx/.xlsm use the spreadsheet reader, anything else CSV.
func New(p config.Parser) (ReadFunc, error) {
	csvOpts := csv.OptionsFrom(p.Options)
	xlsxOpts := xlsx.OptionsFrom(p.Options)

	readCSV := func(ctx context.Context, path string) (*records.Table, error) {
		return csv.ReadTable(ctx, file.NewLocal(path), csvOpts)
	}
	readXLSX := func(ctx context.Context, path string) (*records.Table, error) {
		return xlsx.ReadTable(ctx, file.NewLocal(path), xlsxOpts)
	}

	switch p.Kind {
	case "csv":
		return readCSV, nil
	case "xlsx":
		return readXLSX, nil
	case "", "auto":
		return func(ctx context.Context, path string) (*records.Table, error) {
			if IsSpreadsheet(path) {
				return readXLSX(ctx, path)
			}
			return readCSV(ctx, path)
		}, nil
	default:
		return nil, fmt.Errorf("unknown parser kind %q", p.Kind)
	}
}

// IsSpreadsheet reports whether path has an Excel workbook extension.
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
