// Package table provides the in-memory dataset that audit rules read from.
//
// A Table is built once from a Sheet (a spreadsheet worksheet, a CSV file,
// a query result) and is read-only afterwards. Columns are discovered by
// scanning the header row; the data row count is the declared range with
// trailing blank rows trimmed.
package table

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMaxColumns caps the header scan.
const DefaultMaxColumns = 1000

// Sheet is the raw cell source a Table is built from.
// Row 0 is the header row. ok is false when the cell holds no value.
type Sheet interface {
	Cell(col, row int) (text string, ok bool)
	// DeclaredRows is the number of rows in the declared data range,
	// header included. It may overstate the rows that carry data.
	DeclaredRows() int
}

// Column is a named, positioned column of a Table. Columns are shared
// by every caller of a Table and cannot be changed after the build.
type Column struct {
	name  string
	index int
	label string
}

// NewColumn describes the column at a 0-based index. A negative index
// yields a detached column with no label, used for columns that failed
// to bind.
func NewColumn(name string, index int) *Column {
	c := &Column{name: name, index: index}
	if index >= 0 {
		c.label, _ = excelize.ColumnNumberToName(index + 1)
	}
	return c
}

// Name is the trimmed header text.
func (c *Column) Name() string { return c.name }

// Index is the 0-based position, -1 for a detached column.
func (c *Column) Index() int { return c.index }

// Label is the spreadsheet column letter, e.g. "A" or "AB".
func (c *Column) Label() string { return c.label }

func (c *Column) String() string {
	return c.name
}

// Table is an immutable snapshot of a dataset.
type Table struct {
	columns []*Column
	byName  map[string]*Column
	cells   [][]string
	rows    int
}

type buildOptions struct {
	logger     *slog.Logger
	maxColumns int
}

// Option configures Build.
type Option func(*buildOptions)

// WithLogger sets the logger used to report trimmed row ranges.
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithMaxColumns overrides DefaultMaxColumns.
func WithMaxColumns(n int) Option {
	return func(o *buildOptions) {
		o.maxColumns = n
	}
}

// Build snapshots a Sheet into a Table.
func Build(s Sheet, opts ...Option) (*Table, error) {
	o := &buildOptions{maxColumns: DefaultMaxColumns}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	t := &Table{byName: make(map[string]*Column)}

	for i := 0; ; i++ {
		if i >= o.maxColumns {
			return nil, ErrTooManyColumns
		}
		text, ok := s.Cell(i, 0)
		if !ok {
			break
		}
		name := strings.TrimSpace(text)
		if prev, dup := t.byName[name]; dup {
			return nil, &DuplicateColumnError{Name: name, First: prev.index, Second: i}
		}
		label, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		c := &Column{name: name, index: i, label: label}
		t.columns = append(t.columns, c)
		t.byName[name] = c
	}

	declared := s.DeclaredRows()
	last := declared
	for last > 1 {
		first, _ := s.Cell(0, last-1)
		if strings.TrimSpace(first) != "" {
			break
		}
		last--
	}
	if last > 0 {
		t.rows = last - 1
	}
	if declared > 0 && last != declared {
		o.logger.Warn("declared row range exceeds data",
			"declared", declared-1,
			"rows", t.rows)
	}
	o.logger.Debug("table built", "columns", len(t.columns), "rows", t.rows)

	t.cells = make([][]string, t.rows)
	for y := range t.rows {
		row := make([]string, len(t.columns))
		for x := range t.columns {
			row[x], _ = s.Cell(x, y+1)
		}
		t.cells[y] = row
	}

	return t, nil
}

// Columns returns the columns in header order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// RowCount returns the number of data rows, header excluded.
func (t *Table) RowCount() int {
	return t.rows
}

// Column looks a column up by its exact trimmed header name.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, &ConfigurationError{Column: name}
	}
	return c, nil
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[strings.TrimSpace(name)]
	return ok
}

// Text returns the raw text of a cell, "" when the cell holds no value.
// It panics with a *RowRangeError when row is outside [0, RowCount).
func (t *Table) Text(c *Column, row int) string {
	if row < 0 || row >= t.rows {
		panic(&RowRangeError{Row: row, Rows: t.rows})
	}
	return t.cells[row][c.index]
}

// Float parses a cell with ParseNumber.
func (t *Table) Float(c *Column, row int) (float64, error) {
	text := t.Text(c, row)
	v, err := ParseNumber(text)
	if err != nil {
		return 0, &ParseError{Column: c.name, Row: row, Text: text, Err: err}
	}
	return v, nil
}

// Record returns a copy of one data row in column order.
func (t *Table) Record(row int) []string {
	if row < 0 || row >= t.rows {
		panic(&RowRangeError{Row: row, Rows: t.rows})
	}
	out := make([]string, len(t.cells[row]))
	copy(out, t.cells[row])
	return out
}
