package audit

import (
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Cursor is the default target row of an Assert.
type Cursor struct {
	Row int
}

// Assert evaluates predicates against one table on behalf of one rule
// execution. Probes return booleans; assertions record into the Result.
type Assert struct {
	table  *table.Table
	cursor *Cursor
	result *Result
}

// NewAssert binds an Assert to a table, a cursor and a result.
func NewAssert(t *table.Table, cursor *Cursor, result *Result) *Assert {
	return &Assert{table: t, cursor: cursor, result: result}
}

// At returns the explicit-row form of the DSL.
func (a *Assert) At(row int) Row {
	return Row{a: a, row: row}
}

// Current returns the cursor row.
func (a *Assert) Current() Row {
	return a.At(a.cursor.Row)
}

// Row is the assertion DSL pinned to one data row.
type Row struct {
	a   *Assert
	row int
}

// Index is the 0-based data row.
func (r Row) Index() int { return r.row }

// Text returns the raw cell text.
func (r Row) Text(c *table.Column) string {
	return r.a.table.Text(c, r.row)
}

// Float parses the cell as a number.
func (r Row) Float(c *table.Column) (float64, error) {
	return r.a.table.Float(c, r.row)
}

// Is applies pred to the raw cell text.
func (r Row) Is(c *table.Column, pred func(string) bool) bool {
	return pred(r.Text(c))
}

func (r Row) IsEqual(c *table.Column, value string) bool {
	return strings.TrimSpace(r.Text(c)) == value
}

func (r Row) IsNotEqual(c *table.Column, value string) bool {
	return !r.IsEqual(c, value)
}

func (r Row) IsEmpty(c *table.Column) bool {
	return IsBlank(r.Text(c))
}

func (r Row) IsNotEmpty(c *table.Column) bool {
	return !r.IsEmpty(c)
}

func (r Row) IsZeroOrEmpty(c *table.Column) bool {
	return IsZeroOrEmptyText(r.Text(c))
}

func (r Row) IsNotZeroOrEmpty(c *table.Column) bool {
	return !r.IsZeroOrEmpty(c)
}

func (r Row) IsContains(c *table.Column, substr string) bool {
	return ContainsFold(r.Text(c), substr)
}

// That records a problem unless pred holds for the cell text.
func (r Row) That(c *table.Column, pred func(string) bool, explain ...ExplainFunc) {
	r.check(c, pred(r.Text(c)), pick(explainInvalid, explain))
}

func (r Row) Equal(c *table.Column, value string, explain ...ExplainFunc) {
	r.check(c, r.IsEqual(c, value), pick(explainEqual(value), explain))
}

func (r Row) NotEqual(c *table.Column, value string, explain ...ExplainFunc) {
	r.check(c, r.IsNotEqual(c, value), pick(explainNotEqual(value), explain))
}

func (r Row) Empty(c *table.Column, explain ...ExplainFunc) {
	r.check(c, r.IsEmpty(c), pick(explainEmpty, explain))
}

func (r Row) NotEmpty(c *table.Column, explain ...ExplainFunc) {
	r.check(c, r.IsNotEmpty(c), pick(explainNotEmpty, explain))
}

func (r Row) ZeroOrEmpty(c *table.Column, explain ...ExplainFunc) {
	r.check(c, r.IsZeroOrEmpty(c), pick(explainZeroOrEmpty, explain))
}

func (r Row) NotZeroOrEmpty(c *table.Column, explain ...ExplainFunc) {
	r.check(c, r.IsNotZeroOrEmpty(c), pick(explainNotZeroOrEmpty, explain))
}

func (r Row) Contains(c *table.Column, substr string, explain ...ExplainFunc) {
	r.check(c, r.IsContains(c, substr), pick(explainContains(substr), explain))
}

func (r Row) NotContains(c *table.Column, substr string, explain ...ExplainFunc) {
	r.check(c, !r.IsContains(c, substr), pick(explainNotContains(substr), explain))
}

// Mark records a problem unconditionally.
func (r Row) Mark(c *table.Column, explanation string) {
	r.a.result.Mark(c, r.row, explanation)
}

func (r Row) check(c *table.Column, ok bool, explain ExplainFunc) {
	if ok {
		return
	}
	r.a.result.Mark(c, r.row, explain(r.Text(c)))
}

// Cursor-row conveniences. Each one is At(cursor).X.

func (a *Assert) Text(c *table.Column) string { return a.Current().Text(c) }

func (a *Assert) Float(c *table.Column) (float64, error) { return a.Current().Float(c) }

func (a *Assert) Is(c *table.Column, pred func(string) bool) bool { return a.Current().Is(c, pred) }

func (a *Assert) IsEqual(c *table.Column, value string) bool { return a.Current().IsEqual(c, value) }

func (a *Assert) IsNotEqual(c *table.Column, value string) bool {
	return a.Current().IsNotEqual(c, value)
}

func (a *Assert) IsEmpty(c *table.Column) bool { return a.Current().IsEmpty(c) }

func (a *Assert) IsNotEmpty(c *table.Column) bool { return a.Current().IsNotEmpty(c) }

func (a *Assert) IsZeroOrEmpty(c *table.Column) bool { return a.Current().IsZeroOrEmpty(c) }

func (a *Assert) IsNotZeroOrEmpty(c *table.Column) bool { return a.Current().IsNotZeroOrEmpty(c) }

func (a *Assert) IsContains(c *table.Column, substr string) bool {
	return a.Current().IsContains(c, substr)
}

func (a *Assert) That(c *table.Column, pred func(string) bool, explain ...ExplainFunc) {
	a.Current().That(c, pred, explain...)
}

func (a *Assert) Equal(c *table.Column, value string, explain ...ExplainFunc) {
	a.Current().Equal(c, value, explain...)
}

func (a *Assert) NotEqual(c *table.Column, value string, explain ...ExplainFunc) {
	a.Current().NotEqual(c, value, explain...)
}

func (a *Assert) Empty(c *table.Column, explain ...ExplainFunc) { a.Current().Empty(c, explain...) }

func (a *Assert) NotEmpty(c *table.Column, explain ...ExplainFunc) {
	a.Current().NotEmpty(c, explain...)
}

func (a *Assert) ZeroOrEmpty(c *table.Column, explain ...ExplainFunc) {
	a.Current().ZeroOrEmpty(c, explain...)
}

func (a *Assert) NotZeroOrEmpty(c *table.Column, explain ...ExplainFunc) {
	a.Current().NotZeroOrEmpty(c, explain...)
}

func (a *Assert) Contains(c *table.Column, substr string, explain ...ExplainFunc) {
	a.Current().Contains(c, substr, explain...)
}

func (a *Assert) NotContains(c *table.Column, substr string, explain ...ExplainFunc) {
	a.Current().NotContains(c, substr, explain...)
}

func (a *Assert) Mark(c *table.Column, explanation string) { a.Current().Mark(c, explanation) }
