package records

import (
	"errors"
	"strings"
)

// ErrMissingColumns is matched by every *SchemaError via errors.Is.
var ErrMissingColumns = errors.New("missing required columns")

// SchemaError reports required columns that are absent from a dataset schema.
// It is a configuration mistake, never a data-quality issue, and aborts the run.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is(err, ErrMissingColumns) match any SchemaError.
func (e *SchemaError) Is(target error) bool { return target == ErrMissingColumns }
