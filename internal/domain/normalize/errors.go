package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema marks a source whose header row cannot be normalized.
var ErrSchema = errors.New("invalid sheet schema")

// SchemaError reports a header row without the required name column.
// It aborts normalization of one source only.
type SchemaError struct {
	Missing string
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet headers must include %q (found: %s)", e.Missing, strings.Join(e.Headers, ", "))
}

// Unwrap lets callers match with errors.Is(err, ErrSchema).
func (e *SchemaError) Unwrap() error { return ErrSchema }
