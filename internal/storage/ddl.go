package storage

import (
	"context"
	"fmt"
	"strings"
)

// ColumnType is the storage class inferred for a result column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeReal
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	default:
		return "text"
	}
}

// Dialect renders backend-specific SQL fragments.
type Dialect interface {
	// Quote quotes a possibly schema-qualified identifier.
	Quote(ident string) string

	// TypeName returns the column type used for t.
	TypeName(t ColumnType) string

	// DropTable returns a statement dropping table if it exists.
	DropTable(table string) string
}

// InferTypes picks a ColumnType per column from the non-nil cells. A column
// of integers (or booleans) is TypeInteger, one mixing integers and floats is
// TypeReal, anything else or an all-null column is TypeText.
func InferTypes(columns []string, rows [][]any) []ColumnType {
	types := make([]ColumnType, len(columns))
	for i := range columns {
		seen, integral, numeric := false, true, true
		for _, row := range rows {
			if i >= len(row) || row[i] == nil {
				continue
			}
			seen = true
			switch row[i].(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
			case float32, float64:
				integral = false
			default:
				integral, numeric = false, false
			}
			if !numeric {
				break
			}
		}
		switch {
		case !seen || !numeric:
			types[i] = TypeText
		case integral:
			types[i] = TypeInteger
		default:
			types[i] = TypeReal
		}
	}
	return types
}

// CreateTableSQL builds a CREATE TABLE statement for columns with types.
func CreateTableSQL(d Dialect, table string, columns []string, types []ColumnType) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", table)
	}
	if len(types) != len(columns) {
		return "", fmt.Errorf("ddl: %d types for %d columns", len(types), len(columns))
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = d.Quote(c) + " " + d.TypeName(types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", d.Quote(table), strings.Join(defs, ",\n  ")), nil
}

// Cell converts a result cell into a value every driver accepts: booleans
// become 0/1 and other non-primitive values are formatted as text.
func Cell(v any) any {
	switch t := v.(type) {
	case nil, string, int, int64, float64:
		return t
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// DefaultBatchSize is the number of rows per CopyFrom call in ReplaceTable.
const DefaultBatchSize = 1000

// ReplaceTable drops table, recreates it with inferred column types and
// loads rows in batches. It returns the number of rows written.
func ReplaceTable(ctx context.Context, repo Repository, table string, columns []string, rows [][]any) (int64, error) {
	d := repo.Dialect()
	create, err := CreateTableSQL(d, table, columns, InferTypes(columns, rows))
	if err != nil {
		return 0, err
	}
	if err := repo.Exec(ctx, d.DropTable(table)); err != nil {
		return 0, fmt.Errorf("drop %s: %w", table, err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", table, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan []any, DefaultBatchSize)
	go func() {
		defer close(in)
		for _, row := range rows {
			out := make([]any, len(columns))
			for i := range out {
				if i < len(row) {
					out[i] = Cell(row[i])
				}
			}
			select {
			case in <- out:
			case <-ctx.Done():
				return
			}
		}
	}()

	copyFn := func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
		return repo.CopyFrom(ctx, table, cols, batch)
	}
	n, err := LoadBatches(ctx, table, columns, in, DefaultBatchSize, copyFn)
	if err != nil {
		return n, fmt.Errorf("load %s: %w", table, err)
	}
	return n, nil
}
