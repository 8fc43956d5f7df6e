package file

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// touch creates the named files (slash-separated, relative to root).
func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestDiscoverRecursive(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Nyeri/2023/July/nyeri.xlsx",
		"Nyeri/2024/January/nyeri.XLSX",
		"Nyeri/2022/June/old.xlsx",
		"Kisumu/2023/August/kisumu.csv",
		"Kisumu/2023/August/notes.txt",
		"Kisumu/misc/August/stray.xlsx",
	)

	got, err := Discover(root, DiscoverOptions{
		Recursive: true, StartYear: 2023, EndYear: 2024,
		Extensions: []string{".xlsx", ".csv"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		filepath.Join(root, "Kisumu", "2023", "August", "kisumu.csv"),
		filepath.Join(root, "Nyeri", "2023", "July", "nyeri.xlsx"),
		filepath.Join(root, "Nyeri", "2024", "January", "nyeri.XLSX"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %#v\nwant %#v", got, want)
	}
}

func TestDiscoverFlat(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.csv", "a.xlsx", "readme.md", "sub/c.csv")

	got, err := Discover(root, DiscoverOptions{Extensions: []string{".csv", ".xlsx"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(root, "a.xlsx"), filepath.Join(root, "b.csv")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %#v, want %#v", got, want)
	}
}

func TestDiscoverErrors(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "readme.md")

	if _, err := Discover(root, DiscoverOptions{Recursive: true}); err == nil {
		t.Fatalf("expected error when years are missing")
	}
	_, err := Discover(root, DiscoverOptions{Extensions: []string{".xlsx"}})
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
	if _, err := Discover(filepath.Join(root, "missing"), DiscoverOptions{}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestCourtFromPath(t *testing.T) {
	tests := []struct {
		path, mode, want string
	}{
		{"/data/Nyeri/2023/July/returns.xlsx", "dir", "Nyeri"},
		{"Nyeri/2023/July/returns.xlsx", "dir", "Nyeri"},
		{"July/returns.xlsx", "dir", UnknownCourt},
		{"/data/Kakamega-July-2023.xlsx", "filename", "Kakamega"},
		{"/data/Kakamega.xlsx", "filename", "Kakamega"},
		{"/data/Nyeri/2023/July/returns.xlsx", "column", ""},
	}
	for _, tt := range tests {
		if got := CourtFromPath(tt.path, tt.mode); got != tt.want {
			t.Errorf("CourtFromPath(%q, %q) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
}
