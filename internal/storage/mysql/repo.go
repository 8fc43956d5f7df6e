// Package mysql implements a MySQL repository using go-sql-driver/mysql.
// Batches are written as multi-row INSERT statements inside a transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/namatanda/haki-data/internal/storage"
)

// maxPlaceholders stays under the server's 65535 prepared-parameter limit.
const maxPlaceholders = 60000

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // e.g. "user:pass@tcp(localhost:3306)/haki"
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows into table using as few statements as the
// placeholder limit allows.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	var total int64
	per := max(1, maxPlaceholders/len(columns))
	for start := 0; start < len(rows); start += per {
		chunk := rows[start:min(start+per, len(rows))]
		stmt, args, err := insertSQL(table, columns, chunk)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

// insertSQL builds one multi-row INSERT and its flattened arguments.
func insertSQL(table string, columns []string, rows [][]any) (string, []any, error) {
	d := Dialect{}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.Quote(table), strings.Join(quoted, ", "))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("mysql: row length %d != columns length %d", len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}
	return sb.String(), args, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Dialect implements storage.Dialect for MySQL.
type Dialect struct{}

// Dialect returns the MySQL dialect.
func (r *Repository) Dialect() storage.Dialect { return Dialect{} }

// Quote backtick-quotes each segment of a possibly database-qualified name.
func (Dialect) Quote(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

func (Dialect) TypeName(t storage.ColumnType) string {
	switch t {
	case storage.TypeInteger:
		return "BIGINT"
	case storage.TypeReal:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

func (d Dialect) DropTable(table string) string {
	return "DROP TABLE IF EXISTS " + d.Quote(table)
}
