// Package registrytest builds registry tables for rule tests.
package registrytest

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// RowNumber is the leading column filled automatically so no row is
// trimmed as trailing blank.
const RowNumber = "№"

// Row maps column names to cell text. Missing columns are empty.
type Row map[string]string

// Table builds a table with every registry column.
func Table(t testing.TB, rows ...Row) *table.Table {
	t.Helper()
	header := append([]string{RowNumber}, vocab.Columns...)
	records := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(header))
		rec[0] = strconv.Itoa(i + 1)
		for j, name := range header[1:] {
			rec[j+1] = row[name]
		}
		for name := range row {
			require.Contains(t, header, name, "unknown registry column")
		}
		records[i] = rec
	}
	tbl, err := table.FromRecords(header, records)
	require.NoError(t, err)
	return tbl
}

// Run binds def to tbl with opts and executes it once.
func Run(t testing.TB, def audit.RuleDef, tbl *table.Table, opts map[string]any) *audit.RuleRun {
	t.Helper()
	rule, err := audit.Bind(def, tbl, opts)
	require.NoError(t, err)
	run := audit.NewRun(rule)
	require.NoError(t, run.Execute())
	return run
}

// Cells returns "column@row" for each problem, in order.
func Cells(run *audit.RuleRun) []string {
	out := make([]string, len(run.Problems))
	for i, p := range run.Problems {
		out[i] = p.Column.Name() + "@" + strconv.Itoa(p.Row)
	}
	return out
}
