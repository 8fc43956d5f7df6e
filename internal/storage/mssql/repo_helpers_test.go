package mssql

import (
	"context"
	"testing"

	"github.com/namatanda/haki-data/internal/storage"
)

// TestMsIdent verifies that msIdent brackets SQL Server identifiers and
// escapes closing brackets.
func TestMsIdent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"simple", "[simple]"},
		{"dbo", "[dbo]"},
		{"brack]et", "[brack]]et]"},
		{`weird]]name`, `[weird]]]]name]`},
	}
	for _, tc := range cases {
		if got := msIdent(tc.in); got != tc.want {
			t.Fatalf("msIdent(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestDialectQuote(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"filed_cases", "[filed_cases]"},
		{"dbo.filed_cases", "[dbo].[filed_cases]"},
		{"hc.q4.quarterly_stats", "[hc].[q4].[quarterly_stats]"},
	}
	for _, tc := range cases {
		if got := (Dialect{}).Quote(tc.in); got != tc.want {
			t.Fatalf("Quote(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestDialectDropAndTypes(t *testing.T) {
	d := Dialect{}
	want := "IF OBJECT_ID(N'dbo.filed_cases', N'U') IS NOT NULL DROP TABLE [dbo].[filed_cases]"
	if got := d.DropTable("dbo.filed_cases"); got != want {
		t.Fatalf("DropTable = %q", got)
	}
	if got := d.TypeName(storage.TypeText); got != "NVARCHAR(MAX)" {
		t.Fatalf("TypeName(text) = %q", got)
	}
	if got := d.TypeName(storage.TypeReal); got != "FLOAT" {
		t.Fatalf("TypeName(real) = %q", got)
	}
}

func TestNewRepositoryRejectsBadDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://%zz"}); err == nil {
		t.Fatalf("expected DSN parse error")
	}
}

func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}
	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "sqlserver://sa@localhost"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not call closeFn")
	}
}
