package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func init() {
	Register("parquet", func(logger *slog.Logger) Loader { return &Parquet{logger: logger} })
}

// Parquet loads a Parquet file through Arrow. Every value is rendered
// with its Arrow string form; nulls become empty cells.
type Parquet struct {
	logger *slog.Logger
}

// Load implements Loader.
func (p *Parquet) Load(ctx context.Context, spec Spec) (*Loaded, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = f.Close() }()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer func() { _ = pf.Close() }()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer tbl.Release()

	header, records := arrowRecords(tbl)
	p.logger.Debug("parquet decoded", "columns", len(header), "rows", len(records))

	t, err := table.FromRecords(header, records, tableOptions(spec, p.logger)...)
	if err != nil {
		return nil, err
	}
	return &Loaded{Table: t, Format: "parquet", Path: spec.Path}, nil
}

// arrowRecords converts an Arrow table into string records.
func arrowRecords(tbl arrow.Table) ([]string, [][]string) {
	ncols := int(tbl.NumCols())
	header := make([]string, ncols)
	records := make([][]string, tbl.NumRows())
	for i := range records {
		records[i] = make([]string, ncols)
	}

	for c := range ncols {
		col := tbl.Column(c)
		header[c] = col.Name()
		row := 0
		for _, chunk := range col.Data().Chunks() {
			for i := range chunk.Len() {
				if !chunk.IsNull(i) {
					records[row][c] = chunk.ValueStr(i)
				}
				row++
			}
		}
	}
	return header, records
}
