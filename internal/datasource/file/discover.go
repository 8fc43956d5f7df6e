package file

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoFiles is returned by Discover when nothing matched.
var ErrNoFiles = errors.New("no input files found")

// UnknownCourt is the court assigned when a path is too shallow to name one.
const UnknownCourt = "Unknown Court"

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// Recursive walks the tree and keeps files whose grandparent directory is
	// a year in [StartYear, EndYear], i.e. <court>/<year>/<month>/<file>.
	Recursive bool
	StartYear int
	EndYear   int

	// Extensions are matched case-insensitively, e.g. ".xlsx".
	Extensions []string
}

// Discover lists the matching files under root in lexical order.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	if opts.Recursive && (opts.StartYear == 0 || opts.EndYear == 0) {
		return nil, fmt.Errorf("discover %s: start and end year are required for recursive discovery", root)
	}

	var out []string
	if !opts.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() && hasExt(e.Name(), opts.Extensions) {
				out = append(out, filepath.Join(root, e.Name()))
			}
		}
	} else {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasExt(d.Name(), opts.Extensions) {
				return nil
			}
			yearDir := filepath.Base(filepath.Dir(filepath.Dir(path)))
			year, convErr := strconv.Atoi(yearDir)
			if convErr != nil {
				log.Printf("discover: skip %s: %q is not a year directory", path, yearDir)
				return nil
			}
			if year >= opts.StartYear && year <= opts.EndYear {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("discover %s: %w", root, ErrNoFiles)
	}
	log.Printf("discover: %d files under %s (recursive=%v)", len(out), root, opts.Recursive)
	return out, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// CourtFromPath derives a court name from a file path. Mode "dir" takes the
// directory three levels above the file (<court>/<year>/<month>/<file>);
// mode "filename" takes the base name up to the first "-". Any other mode
// returns "".
func CourtFromPath(path, mode string) string {
	switch mode {
	case "dir":
		parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
		if len(parts) < 4 {
			return UnknownCourt
		}
		return parts[len(parts)-4]
	case "filename":
		base := filepath.Base(path)
		if i := strings.Index(base, "-"); i >= 0 {
			return strings.TrimSpace(base[:i])
		}
		return strings.TrimSuffix(base, filepath.Ext(base))
	default:
		return ""
	}
}
