package audit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// ColumnComment is the text attached to one cell of a row.
type ColumnComment struct {
	Column *table.Column
	Lines  []string
}

// Text joins the comment lines.
func (c ColumnComment) Text() string {
	return strings.Join(c.Lines, "\n")
}

// RowReport holds every problem of one data row.
type RowReport struct {
	Row      int
	Problems []Problem
	// Comments are ordered by column index.
	Comments []ColumnComment
}

// SheetRow is the 1-based spreadsheet row.
func (r *RowReport) SheetRow() int {
	return r.Row + 2
}

// Lines returns one "[rule:'column']: explanation" line per problem.
func (r *RowReport) Lines() []string {
	out := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		out[i] = fmt.Sprintf("[%s:'%s']: %s", p.Rule, p.Column.Name(), p.Explanation)
	}
	return out
}

// Description joins Lines with newlines.
func (r *RowReport) Description() string {
	return strings.Join(r.Lines(), "\n")
}

// Aggregation is the cross-rule view of problems, bucketed by row.
type Aggregation struct {
	Rows  []*RowReport
	Total int

	byRow map[int]*RowReport
}

// Row returns the report of a data row, or nil when it has no problems.
func (a *Aggregation) Row(row int) *RowReport {
	return a.byRow[row]
}

// Aggregate groups the problems of every executed run by row. Runs that
// were never executed are skipped.
func Aggregate(runs []*RuleRun) *Aggregation {
	agg := &Aggregation{byRow: make(map[int]*RowReport)}
	for _, run := range runs {
		if run.Status == NotRun {
			continue
		}
		for _, p := range run.Problems {
			rr, ok := agg.byRow[p.Row]
			if !ok {
				rr = &RowReport{Row: p.Row}
				agg.byRow[p.Row] = rr
				agg.Rows = append(agg.Rows, rr)
			}
			rr.Problems = append(rr.Problems, p)
			agg.Total++
		}
	}

	slices.SortFunc(agg.Rows, func(a, b *RowReport) int { return a.Row - b.Row })
	for _, rr := range agg.Rows {
		rr.Comments = comments(rr.Problems)
	}
	return agg
}

func comments(problems []Problem) []ColumnComment {
	var out []ColumnComment
	index := make(map[int]int)
	for _, p := range problems {
		i, ok := index[p.Column.Index()]
		if !ok {
			i = len(out)
			index[p.Column.Index()] = i
			out = append(out, ColumnComment{Column: p.Column})
		}
		out[i].Lines = append(out[i].Lines, fmt.Sprintf("[%s] %s", p.Rule, p.Explanation))
	}
	slices.SortStableFunc(out, func(a, b ColumnComment) int { return a.Column.Index() - b.Column.Index() })
	return out
}
