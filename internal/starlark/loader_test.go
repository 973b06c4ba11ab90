package starlark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/internal/testutil"
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

const areaScript = `
def _check(row):
    if row.is_equal("Вид ОН", "ZU"):
        row.not_zero_or_empty("Площадь ЗУ")
    if row.is_empty("Год"):
        row.mark("Год", "нет года")
    if row.is_contains("Вид ОН", "oks") and row.float("Площадь ЗУ") > row.options["max_area"]:
        row.zero_or_empty("Площадь ЗУ", explanation = "у ОКС нет площади ЗУ")

rule(
    id = "S01",
    name = "Площадь ЗУ (скрипт)",
    category = "Скрипты",
    columns = ["Вид ОН", "Площадь ЗУ", "Год"],
    check = _check,
    description = "ZU rows need a land area",
)
`

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func registryTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(
		[]string{"Вид ОН", "Площадь ЗУ", "Год"},
		[][]string{
			{"ZU", "0", "2023"},
			{"OKS", "500", ""},
			{"ZU", "12,5", "2024"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "area.star", areaScript)
	writeScript(t, dir, "notes.txt", "ignored")

	defs, err := NewLoader(dir, testutil.NewTestLogger(t)).Load()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "S01", defs[0].ID)
	assert.Equal(t, "Скрипты", defs[0].Category)
	assert.Equal(t, "ZU rows need a land area", defs[0].Description)
}

func TestLoader_MissingDirectory(t *testing.T) {
	defs, err := NewLoader(filepath.Join(t.TempDir(), "nope"), nil).Load()
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{"syntax error", "def broken(:\n", "Starlark execution error"},
		{"check not callable", `rule(id = "S02", name = "x", category = "c", columns = [], check = 1)`, "check"},
		{"columns not strings", `rule(id = "S02", name = "x", category = "c", columns = [1], check = len)`, "columns must contain only strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeScript(t, dir, "bad.star", tt.script)

			_, err := NewLoader(dir, nil).Load()
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, err.Error(), "rules/bad.star")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestScriptRule_Run(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "area.star", areaScript)

	c := audit.NewCatalog()
	n, err := NewLoader(dir, nil).Register(c)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cfg := audit.NewConfig().SetOption("S01", "max_area", 100)
	rules, err := c.Bind(registryTable(t), cfg)
	require.NoError(t, err)

	runs := audit.NewEngine(audit.EngineConfig{}).RunAll(rules)
	require.Len(t, runs, 1)
	run := runs[0]
	require.NoError(t, run.Err)
	assert.Equal(t, audit.Failed, run.Status)

	require.Len(t, run.Problems, 3)
	assert.Equal(t, "Площадь ЗУ", run.Problems[0].Column.Name())
	assert.Equal(t, 0, run.Problems[0].Row)
	assert.Equal(t, "Ожидалось НЕ 0 и НЕ <пусто>, но получено '0'", run.Problems[0].Explanation)
	assert.Equal(t, "Год", run.Problems[1].Column.Name())
	assert.Equal(t, "нет года", run.Problems[1].Explanation)
	assert.Equal(t, "у ОКС нет площади ЗУ", run.Problems[2].Explanation)
	assert.Equal(t, 1, run.Problems[2].Row)
}

func TestScriptRule_MissingColumnFailsBind(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "price.star", `
def _check(row):
    row.not_empty("Цена")

rule(id = "S03", name = "Цена", category = "Скрипты", columns = ["Цена"], check = _check)
`)

	c := audit.NewCatalog()
	_, err := NewLoader(dir, nil).Register(c)
	require.NoError(t, err)

	_, err = c.Bind(registryTable(t), audit.NewConfig())
	var cfgErr *table.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Цена", cfgErr.Column)
}

func TestScriptRule_UndeclaredColumnErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "sneaky.star", `
def _check(row):
    row.text("Год")

rule(id = "S04", name = "sneaky", category = "Скрипты", columns = ["Вид ОН"], check = _check)
`)

	c := audit.NewCatalog()
	_, err := NewLoader(dir, nil).Register(c)
	require.NoError(t, err)
	rules, err := c.Bind(registryTable(t), audit.NewConfig())
	require.NoError(t, err)

	run := audit.NewEngine(audit.EngineConfig{}).RunAll(rules)[0]
	assert.Equal(t, audit.Errored, run.Status)
	assert.ErrorContains(t, run.Err, `column "Год" is not declared`)
	assert.ErrorContains(t, run.Err, "sneaky.star: row 2")
}

func TestLoader_RegisterRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.star", areaScript)
	writeScript(t, dir, "b.star", areaScript)

	_, err := NewLoader(dir, nil).Register(audit.NewCatalog())
	var dup *audit.DuplicateRuleError
	assert.ErrorAs(t, err, &dup)
}
