package audit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func newTable(t *testing.T, header []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(header, rows)
	require.NoError(t, err)
	return tbl
}

func column(t *testing.T, tbl *table.Table, name string) *table.Column {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	return c
}

// newAssert returns an Assert over tbl recording into a throwaway rule.
func newAssert(tbl *table.Table) (*Assert, *Result) {
	res := &Result{rule: &Rule{ID: "T01", Name: "test", Category: "tests", table: tbl}}
	return NewAssert(tbl, &Cursor{}, res), res
}

func mustBind(t *testing.T, def RuleDef, tbl *table.Table) *Rule {
	t.Helper()
	r, err := Bind(def, tbl, nil)
	require.NoError(t, err)
	return r
}

// yearCodes checks that every code column contains the year.
var yearCodes = RuleDef{
	ID:       "Y01",
	Name:     "Year codes",
	Category: "General",
	Build: func(b *Binder) Procedure {
		year := b.Column("Year")
		codes := b.Columns("Lot code", "Object code")
		return func(ctx *Context) error {
			for range ctx.Rows() {
				y := ctx.Text(year)
				for _, c := range codes {
					ctx.Contains(c, y)
				}
			}
			return nil
		}
	},
}
