package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

func init() {
	Register("csv", func(logger *slog.Logger) Loader { return &CSV{logger: logger} })
}

// CSV loads a delimited text file. The first record is the header.
type CSV struct {
	logger *slog.Logger
}

const utf8BOM = "\uFEFF"

// Load implements Loader.
func (c *CSV) Load(ctx context.Context, spec Spec) (*Loaded, error) {
	r := spec.Reader
	if r == nil {
		f, err := os.Open(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	delim := spec.Delimiter
	if delim == 0 {
		delim = ','
		if strings.EqualFold(filepath.Ext(spec.Path), ".tsv") {
			delim = '\t'
		}
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var records [][]string
	for {
		if len(records)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		records = append(records, rec)
	}

	t, err := table.FromRecords(header, records, tableOptions(spec, c.logger)...)
	if err != nil {
		return nil, err
	}
	return &Loaded{Table: t, Format: "csv", Path: spec.Path}, nil
}
