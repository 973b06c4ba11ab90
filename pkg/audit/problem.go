package audit

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Problem is a single recorded violation, tied to one cell.
type Problem struct {
	Column *table.Column
	// Row is the 0-based data row.
	Row         int
	RuleID      string
	Rule        string
	Category    string
	Explanation string
}

// SheetRow is the 1-based spreadsheet row of the cell, header included.
func (p Problem) SheetRow() int {
	return p.Row + 2
}

// Cell is the spreadsheet address of the cell, e.g. "C14".
func (p Problem) Cell() string {
	return p.Column.Label() + strconv.Itoa(p.SheetRow())
}

func (p Problem) String() string {
	if p.Explanation == "" {
		return fmt.Sprintf("'%s':%d", p.Column.Name(), p.SheetRow())
	}
	return fmt.Sprintf("'%s':%d - %s", p.Column.Name(), p.SheetRow(), p.Explanation)
}

// Result accumulates the problems of one rule execution.
type Result struct {
	rule     *Rule
	problems []Problem
}

// Mark records a problem at (column, row).
func (r *Result) Mark(c *table.Column, row int, explanation string) {
	r.problems = append(r.problems, Problem{
		Column:      c,
		Row:         row,
		RuleID:      r.rule.ID,
		Rule:        r.rule.Name,
		Category:    r.rule.Category,
		Explanation: explanation,
	})
}

// Problems returns the problems recorded so far.
func (r *Result) Problems() []Problem {
	return r.problems
}

// Passed reports whether nothing has been recorded.
func (r *Result) Passed() bool {
	return len(r.problems) == 0
}
