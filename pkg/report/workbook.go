// Package report renders audit results: the annotated workbook export and
// a structured JSON/YAML document.
package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/source"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Export column headers.
const (
	CountColumn       = "Количество проблем"
	DescriptionColumn = "Описание проблем"
)

const (
	// DefaultSuffix is appended to the input name for the exported file.
	DefaultSuffix = "_export"
	// DefaultRetryInterval is the wait between save attempts on a locked file.
	DefaultRetryInterval = 5 * time.Second
	// CommentAuthor is the author of cell comments.
	CommentAuthor = "regaudit"
	// ProblemFill is the background of commented cells (firebrick).
	ProblemFill = "B22222"
)

// ErrExportColumnsExist is returned when the input already has the export
// columns, which would otherwise be overwritten.
var ErrExportColumnsExist = errors.New("export columns already exist")

// ExporterConfig configures a WorkbookExporter.
type ExporterConfig struct {
	Logger *slog.Logger
	// RetryInterval is the wait between save attempts. Zero uses DefaultRetryInterval.
	RetryInterval time.Duration
	// MaxRetries caps save retries on a locked file. Zero retries until ctx is done.
	MaxRetries uint64
}

// WorkbookExporter writes problems back into a copy of the audited workbook.
type WorkbookExporter struct {
	logger        *slog.Logger
	retryInterval time.Duration
	maxRetries    uint64

	save func(f *excelize.File, dst string) error
}

// NewWorkbookExporter creates an exporter.
func NewWorkbookExporter(cfg ExporterConfig) *WorkbookExporter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &WorkbookExporter{
		logger:        logger,
		retryInterval: interval,
		maxRetries:    cfg.MaxRetries,
		save:          func(f *excelize.File, dst string) error { return f.SaveAs(dst) },
	}
}

// ExportPath returns <dir>/<name><suffix>.xlsx for an input path.
func ExportPath(src, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(src), name+suffix+".xlsx")
}

// Export annotates the workbook at src and saves it to dst. When src is not
// a workbook (csv, parquet, SQL input) the table itself is written to a new
// workbook first. sheet is the worksheet the table was read from.
func (e *WorkbookExporter) Export(ctx context.Context, src, dst, sheet string, t *table.Table, agg *audit.Aggregation) error {
	if t.HasColumn(CountColumn) || t.HasColumn(DescriptionColumn) {
		return fmt.Errorf("%w: remove %q and %q from the input first", ErrExportColumnsExist, CountColumn, DescriptionColumn)
	}

	f, sheet, err := e.open(src, sheet, t)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := annotate(f, sheet, t, agg, e.logger); err != nil {
		return fmt.Errorf("annotate %s: %w", sheet, err)
	}

	if err := e.saveWithRetry(ctx, f, dst); err != nil {
		return err
	}
	e.logger.Info("export saved", "path", dst, "rows", len(agg.Rows), "problems", agg.Total)
	return nil
}

func (e *WorkbookExporter) open(src, sheet string, t *table.Table) (*excelize.File, string, error) {
	if source.DetectFormat(src) == "xlsx" {
		f, err := excelize.OpenFile(src)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open workbook: %w", err)
		}
		name, err := source.ResolveSheet(f, sheet)
		if err != nil {
			_ = f.Close()
			return nil, "", err
		}
		return f, name, nil
	}

	e.logger.Debug("input is not a workbook, writing table to a new one", "src", src)
	f, err := NewWorkbook(t)
	if err != nil {
		return nil, "", err
	}
	return f, f.GetSheetName(0), nil
}

// NewWorkbook writes a table into a fresh single-sheet workbook.
func NewWorkbook(t *table.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := make([]any, 0, t.ColumnCount())
	for _, c := range t.Columns() {
		header = append(header, c.Name())
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for row := range t.RowCount() {
		rec := t.Record(row)
		values := make([]any, len(rec))
		for i, v := range rec {
			values[i] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func annotate(f *excelize.File, sheet string, t *table.Table, agg *audit.Aggregation, logger *slog.Logger) error {
	countCol := t.ColumnCount() + 1
	descCol := countCol + 1

	countHeader, _ := excelize.CoordinatesToCellName(countCol, 1)
	descHeader, _ := excelize.CoordinatesToCellName(descCol, 1)
	if err := f.SetCellStr(sheet, countHeader, CountColumn); err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, descHeader, DescriptionColumn); err != nil {
		return err
	}

	if err := removeConditionalFormats(f, sheet); err != nil {
		return err
	}

	fills := newFillCache(f)
	for _, rr := range agg.Rows {
		row := rr.SheetRow()
		countCell, _ := excelize.CoordinatesToCellName(countCol, row)
		descCell, _ := excelize.CoordinatesToCellName(descCol, row)
		if err := f.SetCellInt(sheet, countCell, int64(len(rr.Problems))); err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, descCell, rr.Description()); err != nil {
			return err
		}

		for _, cc := range rr.Comments {
			cell := cc.Column.Label() + strconv.Itoa(row)
			if err := fills.apply(sheet, cell); err != nil {
				return err
			}
			if err := f.DeleteComment(sheet, cell); err != nil {
				logger.Warn("failed to remove existing comment", "sheet", sheet, "cell", cell, "error", err)
			}
			if err := f.AddComment(sheet, excelize.Comment{
				Cell:   cell,
				Author: CommentAuthor,
				Text:   cc.Text(),
			}); err != nil {
				return fmt.Errorf("comment %s: %w", cell, err)
			}
		}
	}
	return nil
}

func removeConditionalFormats(f *excelize.File, sheet string) error {
	formats, err := f.GetConditionalFormats(sheet)
	if err != nil {
		return err
	}
	for ref := range formats {
		if err := f.UnsetConditionalFormat(sheet, ref); err != nil {
			return err
		}
	}
	return nil
}

// fillCache derives a firebrick variant of every cell style it meets, so
// fonts, borders and number formats survive the fill.
type fillCache struct {
	f      *excelize.File
	styles map[int]int
}

func newFillCache(f *excelize.File) *fillCache {
	return &fillCache{f: f, styles: make(map[int]int)}
}

func (c *fillCache) apply(sheet, cell string) error {
	current, err := c.f.GetCellStyle(sheet, cell)
	if err != nil {
		return err
	}
	filled, ok := c.styles[current]
	if !ok {
		style := &excelize.Style{}
		if current != 0 {
			if existing, err := c.f.GetStyle(current); err == nil && existing != nil {
				style = existing
			}
		}
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ProblemFill}}
		filled, err = c.f.NewStyle(style)
		if err != nil {
			return err
		}
		c.styles[current] = filled
	}
	return c.f.SetCellStyle(sheet, cell, cell, filled)
}

func (e *WorkbookExporter) saveWithRetry(ctx context.Context, f *excelize.File, dst string) error {
	var b retry.Backoff = retry.NewConstant(e.retryInterval)
	if e.maxRetries > 0 {
		b = retry.WithMaxRetries(e.maxRetries, b)
	}

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := e.save(f, dst)
		if err == nil {
			return nil
		}
		if isLocked(err) {
			e.logger.Warn("export file is locked, retrying",
				"path", dst,
				"attempt", attempt,
				"interval", e.retryInterval)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", dst, err)
	}
	return nil
}

// isLocked reports whether a save failed because another process holds the file.
func isLocked(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}
