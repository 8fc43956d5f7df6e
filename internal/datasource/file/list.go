package file

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ReadList returns the non-empty lines of a text file in order. Lines whose
// first non-blank character is '#' are comments.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveList reads a list of input files. Relative entries are taken
// relative to the directory holding the list.
func ResolveList(path string) ([]string, error) {
	lines, err := ReadList(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i, l := range lines {
		if !filepath.IsAbs(l) {
			lines[i] = filepath.Join(base, l)
		}
	}
	return lines, nil
}
