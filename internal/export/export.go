// Package export writes result tables to CSV files, an Excel workbook and
// SQL storage.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/namatanda/haki-data/internal/report"
	"github.com/namatanda/haki-data/internal/storage"
)

// FormatCell renders a result cell as CSV text. nil is the empty string.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// WriteCSV writes each table to <dir>/<name>.csv, creating dir if needed.
func WriteCSV(dir string, tables []report.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		if err := writeCSVFile(path, t); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("export: wrote %s (%d rows)", path, t.Len())
	}
	return nil
}

func writeCSVFile(path string, t report.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range rec {
			rec[i] = ""
			if i < len(row) {
				rec[i] = FormatCell(row[i])
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// maxSheetName is Excel's limit on worksheet name length.
const maxSheetName = 31

// WriteWorkbook saves all tables into one .xlsx file, one sheet per table in
// order. Sheet names longer than Excel allows are truncated.
func WriteWorkbook(path string, tables []report.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, t := range tables {
		name := t.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}

		header := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			header[j] = c
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		for r, row := range t.Rows {
			cells := make([]any, len(row))
			copy(cells, row)
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, r+2, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	log.Printf("export: wrote %s (%d sheets)", path, len(tables))
	return nil
}

// Store replaces <prefix><name> in repo with each table's rows.
func Store(ctx context.Context, repo storage.Repository, prefix string, tables []report.Table) error {
	for _, t := range tables {
		name := prefix + t.Name
		n, err := storage.ReplaceTable(ctx, repo, name, t.Columns, t.Rows)
		if err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		log.Printf("export: stored %s (%d rows)", name, n)
	}
	return nil
}
