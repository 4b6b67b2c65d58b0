package study

import "fmt"

// SchemaError reports an input table that does not match the expected layout:
// a missing column or a cell that cannot be parsed as the column's type.
type SchemaError struct {
	File   string
	Column string
	// Row is the 1-based data row (header excluded); 0 for header problems.
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "schema error"
	}
	if e.Row > 0 {
		return fmt.Sprintf("schema error in %s, row %d, column %q: %s", e.File, e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error in %s, column %q: %s", e.File, e.Column, e.Reason)
}
