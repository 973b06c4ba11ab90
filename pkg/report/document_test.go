package report

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func TestNewDocument(t *testing.T) {
	tbl, err := table.FromRecords([]string{"Год", "Вид ОН"}, [][]string{{"2023", "ZU"}, {"2024", ""}, {"2025", ""}})
	require.NoError(t, err)
	runs, agg := audited(t, tbl)

	doc := NewDocument("registry.xlsx", runs, agg)

	_, err = uuid.Parse(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, Summary{Rules: 1, Failed: 1, Problems: 2, Rows: 2}, doc.Summary)
	require.Len(t, doc.Rules, 1)
	assert.Equal(t, "K01", doc.Rules[0].ID)
	require.Len(t, doc.Rules[0].Problems, 2)
	assert.Equal(t, "B3", doc.Rules[0].Problems[0].Cell)
	assert.Equal(t, 3, doc.Rows[0].Row)
	assert.Equal(t, 1, doc.Rows[0].Count)
}

func TestDocument_Write(t *testing.T) {
	tbl, err := table.FromRecords([]string{"Год", "Вид ОН"}, [][]string{{"2023", ""}})
	require.NoError(t, err)
	runs, agg := audited(t, tbl)
	doc := NewDocument("registry.csv", runs, agg)

	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"status": "failed"`, `"cell": "B2"`, `"source": "registry.csv"`}},
		{"yaml", []string{"status: failed", "cell: B2", "source: registry.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, doc.Write(&buf, tt.format))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}

	assert.Error(t, doc.Write(&bytes.Buffer{}, "xml"))
}
