package datasource

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource/file"
)

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.csv", "b.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	list := filepath.Join(dir, "inputs.txt")
	if err := os.WriteFile(list, []byte("b.xlsx\n# skip\na.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     config.Source
		want    []string
		wantErr error
	}{
		{
			name: "file",
			src:  config.Source{Kind: "file", File: config.SourceFile{Path: "x.csv"}},
			want: []string{"x.csv"},
		},
		{
			name: "dir",
			src:  config.Source{Kind: "dir", Dir: config.SourceDir{Path: dir, Extensions: []string{".csv", ".xlsx"}}},
			want: []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.xlsx")},
		},
		{
			name: "list keeps order",
			src:  config.Source{Kind: "list", List: config.SourceList{Path: list}},
			want: []string{filepath.Join(dir, "b.xlsx"), filepath.Join(dir, "a.csv")},
		},
		{
			name:    "empty list",
			src:     config.Source{Kind: "list", List: config.SourceList{Path: empty}},
			wantErr: file.ErrNoFiles,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paths(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Paths: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Paths = %#v, want %#v", got, tt.want)
			}
		})
	}

	if _, err := Paths(config.Source{Kind: "s3"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestCourt(t *testing.T) {
	p := "/srv/Nyeri/2023/July/returns.xlsx"
	if got := Court(p, "dir"); got != "Nyeri" {
		t.Fatalf("Court(dir) = %q", got)
	}
	if got := Court(p, "column"); got != "" {
		t.Fatalf("Court(column) = %q, want empty", got)
	}
}
