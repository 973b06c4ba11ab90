package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func init() {
	Register("xlsx", func(logger *slog.Logger) Loader { return &XLSX{logger: logger} })
}

// XLSX loads one worksheet of an Excel workbook. Cells are read as raw
// values, not as displayed with number formats.
type XLSX struct {
	logger *slog.Logger
}

// Load implements Loader.
func (x *XLSX) Load(ctx context.Context, spec Spec) (*Loaded, error) {
	var (
		f   *excelize.File
		err error
	)
	if spec.Reader != nil {
		f, err = excelize.OpenReader(spec.Reader)
	} else {
		f, err = excelize.OpenFile(spec.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := ResolveSheet(f, spec.Sheet)
	if err != nil {
		return nil, err
	}
	ws, err := ReadWorksheet(f, sheet)
	if err != nil {
		return nil, err
	}

	t, err := table.Build(ws, tableOptions(spec, x.logger)...)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return &Loaded{Table: t, Format: "xlsx", Path: spec.Path, Sheet: sheet}, nil
}

// ResolveSheet returns name when the workbook has it, or the first
// worksheet when name is empty.
func ResolveSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no worksheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", &SheetNotFoundError{Sheet: name, Available: sheets}
}

// SheetNotFoundError is returned when the requested worksheet does not exist.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("worksheet %q not found\nAvailable worksheets: %v", e.Sheet, e.Available)
}

// Worksheet is a table.Sheet over the rows of an excelize worksheet.
type Worksheet struct {
	rows     [][]string
	declared int
}

// ReadWorksheet reads every row of sheet. The declared row count comes
// from the worksheet dimension, which may extend past the last row with data.
func ReadWorksheet(f *excelize.File, sheet string) (*Worksheet, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	ws := &Worksheet{rows: rows, declared: len(rows)}

	dim, err := f.GetSheetDimension(sheet)
	if err == nil {
		if n, ok := dimensionRows(dim); ok && n > ws.declared {
			ws.declared = n
		}
	}
	return ws, nil
}

// dimensionRows extracts the last row of a range such as "A1:AB120".
func dimensionRows(dim string) (int, bool) {
	if dim == "" {
		return 0, false
	}
	end := dim
	if i := strings.LastIndexByte(dim, ':'); i >= 0 {
		end = dim[i+1:]
	}
	_, row, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return 0, false
	}
	return row, true
}

// Cell implements table.Sheet.
func (w *Worksheet) Cell(col, row int) (string, bool) {
	if row < 0 || row >= len(w.rows) || col < 0 || col >= len(w.rows[row]) {
		return "", false
	}
	v := w.rows[row][col]
	return v, v != ""
}

// DeclaredRows implements table.Sheet.
func (w *Worksheet) DeclaredRows() int {
	return w.declared
}
