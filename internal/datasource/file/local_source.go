// Package file implements local filesystem inputs: single files, discovered
// return trees and list files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound path.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading. A context that is already done
// short-circuits before the filesystem is touched. Filesystem errors are
// wrapped with the path and still satisfy errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
