package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/regaudit/internal/testutil"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

func text(t *testing.T, tbl *table.Table, col string, row int) string {
	t.Helper()
	c, err := tbl.Column(col)
	require.NoError(t, err)
	return tbl.Text(c, row)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"registry.xlsx", "xlsx"},
		{"REGISTRY.XLSM", "xlsx"},
		{"data/registry.csv", "csv"},
		{"registry.tsv", "csv"},
		{"registry.parquet", "parquet"},
		{"registry.duckdb", "duckdb"},
		{"registry.sqlite3", "sqlite"},
		{"postgres://user@localhost/db", "postgres"},
		{"postgresql://localhost/db", "postgres"},
		{"registry.ods", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "duckdb", "parquet", "postgres", "sqlite", "xlsx"}, Formats())
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := Load(context.Background(), Spec{Path: "registry.ods"}, nil)

	var unknown *UnknownFormatError
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, unknown.Format)
	assert.Contains(t, unknown.Available, "xlsx")
}

func writeWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "registry.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSX_Load(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"Год", " Код лота ", "Площадь ЗУ"},
		[]any{2023, "2023-01", 1234.5},
		[]any{2024, nil, 0},
		[]any{nil, nil, "forgotten"},
	)

	loaded, err := Load(context.Background(), Spec{Path: path}, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "xlsx", loaded.Format)
	assert.Equal(t, "Sheet1", loaded.Sheet)
	assert.Equal(t, 3, loaded.Table.ColumnCount())
	assert.Equal(t, 2, loaded.Table.RowCount())
	assert.Equal(t, "2023", text(t, loaded.Table, "Год", 0))
	assert.Equal(t, "2023-01", text(t, loaded.Table, "Код лота", 0))
	assert.Equal(t, "1234.5", text(t, loaded.Table, "Площадь ЗУ", 0))
	assert.Empty(t, text(t, loaded.Table, "Код лота", 1))
}

func TestXLSX_Reader(t *testing.T) {
	path := writeWorkbook(t, []any{"Год"}, []any{2023})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := Load(context.Background(), Spec{
		Format: "xlsx",
		Reader: strings.NewReader(string(data)),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Table.RowCount())
}

func TestXLSX_SheetNotFound(t *testing.T) {
	path := writeWorkbook(t, []any{"Год"}, []any{2023})

	_, err := Load(context.Background(), Spec{Path: path, Sheet: "Реестр"}, nil)

	var notFound *SheetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"Sheet1"}, notFound.Available)
	assert.Contains(t, err.Error(), "load "+path)
}

func TestDimensionRows(t *testing.T) {
	tests := []struct {
		dim  string
		want int
		ok   bool
	}{
		{"A1:AB120", 120, true},
		{"A1", 1, true},
		{"", 0, false},
		{"garbage", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.dim, func(t *testing.T) {
			got, ok := dimensionRows(tt.dim)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSV_Load(t *testing.T) {
	t.Run("reader with bom", func(t *testing.T) {
		input := utf8BOM + "Год,Цена\n2023,\"1 234,5\"\n2024,7\n"
		loaded, err := Load(context.Background(), Spec{Format: "csv", Reader: strings.NewReader(input)}, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, loaded.Table.RowCount())
		assert.Equal(t, "2023", text(t, loaded.Table, "Год", 0))
		assert.Equal(t, "1 234,5", text(t, loaded.Table, "Цена", 0))
	})

	t.Run("tsv by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.tsv")
		require.NoError(t, os.WriteFile(path, []byte("Год\tЛот\n2023\tA\n"), 0o600))

		loaded, err := Load(context.Background(), Spec{Path: path}, nil)
		require.NoError(t, err)
		assert.Equal(t, "csv", loaded.Format)
		assert.Equal(t, "A", text(t, loaded.Table, "Лот", 0))
	})

	t.Run("explicit delimiter and ragged rows", func(t *testing.T) {
		input := "Год;Лот;Код ОН\n2023;A\n"
		loaded, err := Load(context.Background(), Spec{Format: "csv", Delimiter: ';', Reader: strings.NewReader(input)}, nil)
		require.NoError(t, err)
		assert.Empty(t, text(t, loaded.Table, "Код ОН", 0))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Load(context.Background(), Spec{Format: "csv", Reader: strings.NewReader("")}, nil)
		assert.ErrorContains(t, err, "csv input is empty")
	})
}

func writeParquet(t *testing.T) string {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "Год", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "Площадь ЗУ", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"2023", "2024"}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{12.5, 0}, []bool{true, false})
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	path := filepath.Join(t.TempDir(), "registry.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	require.NoError(t, pqarrow.WriteTable(tbl, f, 1024, props, pqarrow.DefaultWriterProps()))
	return path
}

func TestParquet_Load(t *testing.T) {
	path := writeParquet(t)

	loaded, err := Load(context.Background(), Spec{Path: path}, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "parquet", loaded.Format)
	assert.Equal(t, 2, loaded.Table.RowCount())
	assert.Equal(t, "2023", text(t, loaded.Table, "Год", 0))
	assert.Equal(t, "12.5", text(t, loaded.Table, "Площадь ЗУ", 0))
	assert.Empty(t, text(t, loaded.Table, "Площадь ЗУ", 1))
}

func TestSQL_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT \* FROM "registry"\."assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"Год", "Цена"}).
			AddRow("2023", 1234.5).
			AddRow([]byte("2024"), nil))

	loaded, err := NewSQL("postgres", db, nil).Load(context.Background(), Spec{Sheet: "registry.assets"})
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Table.RowCount())
	assert.Equal(t, "1234.5", text(t, loaded.Table, "Цена", 0))
	assert.Equal(t, "2024", text(t, loaded.Table, "Год", 1))
	assert.Empty(t, text(t, loaded.Table, "Цена", 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_NoQuery(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewSQL("duckdb", db, nil).Load(context.Background(), Spec{})
	assert.ErrorIs(t, err, ErrNoQuery)
}

func TestSQL_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE assets ("Год" INTEGER, "Вид ОН" TEXT, "Площадь ЗУ" REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO assets VALUES (2023, 'ZU', 150.25), (2024, NULL, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	loaded, err := Load(context.Background(), Spec{
		Path:  path,
		Query: `SELECT * FROM assets ORDER BY "Год"`,
	}, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", loaded.Format)
	assert.Equal(t, 2, loaded.Table.RowCount())
	assert.Equal(t, "2023", text(t, loaded.Table, "Год", 0))
	assert.Equal(t, "150.25", text(t, loaded.Table, "Площадь ЗУ", 0))
	assert.Empty(t, text(t, loaded.Table, "Вид ОН", 1))
	assert.Equal(t, "0", text(t, loaded.Table, "Площадь ЗУ", 1))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"bytes", []byte("x"), "x"},
		{"int", int64(-3), "-3"},
		{"float", 0.1, "0.1"},
		{"bool", true, "true"},
		{"date", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), "2023-05-01"},
		{"timestamp", time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC), "2023-05-01T10:30:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.in))
		})
	}
}
