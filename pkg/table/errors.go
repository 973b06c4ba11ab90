package table

import (
	"errors"
	"fmt"
)

// ErrTooManyColumns is returned when the header scan reaches the column cap
// without finding an empty header cell.
var ErrTooManyColumns = errors.New("too many columns in header")

// ConfigurationError is returned when a column name cannot be resolved.
// Rule is set when the lookup happened while binding a rule.
type ConfigurationError struct {
	Column string
	Rule   string
}

func (e *ConfigurationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %q: column %q not found", e.Rule, e.Column)
	}
	return fmt.Sprintf("column %q not found", e.Column)
}

// ParseError is returned when a cell cannot be read as a number.
type ParseError struct {
	Column string
	Row    int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q in column %q (row %d) as number", e.Text, e.Column, e.Row+2)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RowRangeError reports an access outside [0, RowCount).
type RowRangeError struct {
	Row  int
	Rows int
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("row %d out of range [0, %d)", e.Row, e.Rows)
}

// DuplicateColumnError is returned when two header cells carry the same trimmed name.
type DuplicateColumnError struct {
	Name   string
	First  int
	Second int
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q at positions %d and %d", e.Name, e.First+1, e.Second+1)
}
