package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func TestAggregate_Buckets(t *testing.T) {
	a := table.NewColumn("Год", 0)
	b := table.NewColumn("Лот", 1)

	run := &RuleRun{Status: Failed, Problems: []Problem{
		{Column: b, Row: 5, Rule: "r1", Explanation: "e3"},
		{Column: b, Row: 2, Rule: "r1", Explanation: "e1"},
		{Column: a, Row: 2, Rule: "r1", Explanation: "e2"},
	}}

	agg := Aggregate([]*RuleRun{run})
	require.Len(t, agg.Rows, 2)
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 2, agg.Rows[0].Row)
	assert.Len(t, agg.Rows[0].Problems, 2)
	assert.Equal(t, 5, agg.Rows[1].Row)
	assert.Len(t, agg.Rows[1].Problems, 1)
	assert.Same(t, agg.Rows[1], agg.Row(5))
	assert.Nil(t, agg.Row(3))
}

func TestAggregate_SkipsNotRun(t *testing.T) {
	c := table.NewColumn("Год", 0)
	runs := []*RuleRun{
		{Status: NotRun, Problems: []Problem{{Column: c, Row: 0, Rule: "stale"}}},
		{Status: Errored, Problems: []Problem{{Column: c, Row: 1, Rule: "partial", Explanation: "x"}}},
	}

	agg := Aggregate(runs)
	require.Len(t, agg.Rows, 1)
	assert.Equal(t, 1, agg.Rows[0].Row)
	assert.Equal(t, 1, agg.Total)
}

func TestAggregate_DescriptionAndComments(t *testing.T) {
	year := table.NewColumn("Год", 0)
	lot := table.NewColumn("Код лота", 3)

	runs := []*RuleRun{
		{Status: Failed, Problems: []Problem{
			{Column: lot, Row: 0, Rule: "Год, коды, лоты (1.)", Explanation: "нет года"},
		}},
		{Status: Failed, Problems: []Problem{
			{Column: year, Row: 0, Rule: "Другое", Explanation: "пусто"},
			{Column: lot, Row: 0, Rule: "Другое", Explanation: "формат"},
		}},
	}

	rr := Aggregate(runs).Row(0)
	require.NotNil(t, rr)
	assert.Equal(t, 2, rr.SheetRow())
	assert.Equal(t,
		"[Год, коды, лоты (1.):'Код лота']: нет года\n"+
			"[Другое:'Год']: пусто\n"+
			"[Другое:'Код лота']: формат",
		rr.Description())

	require.Len(t, rr.Comments, 2)
	assert.Equal(t, "Год", rr.Comments[0].Column.Name())
	assert.Equal(t, "[Другое] пусто", rr.Comments[0].Text())
	assert.Equal(t, "Код лота", rr.Comments[1].Column.Name())
	assert.Equal(t, "[Год, коды, лоты (1.)] нет года\n[Другое] формат", rr.Comments[1].Text())
}

func TestAggregate_EndToEnd(t *testing.T) {
	tbl := yearTable(t)
	rules := []*Rule{mustBind(t, yearCodes, tbl)}

	agg := Aggregate(NewEngine(EngineConfig{}).RunAll(rules))
	require.Len(t, agg.Rows, 1)
	assert.Equal(t, 1, agg.Rows[0].Row)
	assert.Equal(t, []string{"[Year codes:'Lot code']: Ожидалось, что ячейка будет содержать '2023'"}, agg.Rows[0].Lines())
}
