// Package datasource resolves a configured source into the ordered list of
// input files and opens them for reading.
package datasource

import (
	"context"
	"fmt"
	"io"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/datasource/file"
)

// Source is a readable input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Paths returns the input files named by s, in a stable order.
func Paths(s config.Source) ([]string, error) {
	switch s.Kind {
	case "file":
		return []string{s.File.Path}, nil
	case "dir":
		return file.Discover(s.Dir.Path, file.DiscoverOptions{
			Recursive:  s.Dir.Recursive,
			StartYear:  s.Dir.StartYear,
			EndYear:    s.Dir.EndYear,
			Extensions: s.Dir.Extensions,
		})
	case "list":
		paths, err := file.ResolveList(s.List.Path)
		if err != nil {
			return nil, fmt.Errorf("source list: %w", err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("source list %s: %w", s.List.Path, file.ErrNoFiles)
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

// Court returns the court name implied by path under mode, or "" when the
// court should come from the file contents.
func Court(path, mode string) string {
	switch mode {
	case "dir", "filename":
		return file.CourtFromPath(path, mode)
	default:
		return ""
	}
}
