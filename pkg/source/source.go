// Package source loads registry tables from files and databases.
//
// Loaders are registered by format name. The built-in formats are xlsx,
// csv, parquet, duckdb, sqlite and postgres:
//
//	loaded, err := source.Load(ctx, source.Spec{Path: "registry.xlsx"}, logger)
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Spec describes where a table comes from.
type Spec struct {
	// Path is a file path or, for postgres, a connection URL.
	Path string
	// Format overrides detection from Path.
	Format string
	// Sheet is the worksheet name for xlsx, or the table name for SQL sources.
	Sheet string
	// Query is the SQL query for SQL sources.
	Query string
	// Delimiter is the csv field separator. Defaults to ','.
	Delimiter rune
	// Reader, when set, is read instead of opening Path (xlsx and csv only).
	Reader io.Reader
	// MaxColumns caps the header scan. Zero uses table.DefaultMaxColumns.
	MaxColumns int
}

// Loaded is a table together with where it came from.
type Loaded struct {
	Table  *table.Table
	Format string
	Path   string
	// Sheet is the worksheet or SQL table actually read.
	Sheet string
}

// Loader reads a table.
type Loader interface {
	Load(ctx context.Context, spec Spec) (*Loaded, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Loader)
)

// Register adds a loader factory for a format.
func Register(format string, factory func(*slog.Logger) Loader) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[format] = factory
}

// Get retrieves a loader factory by format.
func Get(format string) (func(*slog.Logger) Loader, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[format]
	return f, ok
}

// Formats returns all registered format names (sorted).
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownFormatError is returned when no loader handles a format.
type UnknownFormatError struct {
	Format    string
	Available []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown input format %q\nAvailable formats: %v\nHint: pass --format or use a known file extension", e.Format, e.Available)
}

// DetectFormat infers the format from a path or URL. It returns "" when
// nothing matches.
func DetectFormat(path string) string {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return "postgres"
	}
	switch filepath.Ext(lower) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv", ".tsv", ".txt":
		return "csv"
	case ".parquet", ".pq":
		return "parquet"
	case ".duckdb", ".ddb":
		return "duckdb"
	case ".sqlite", ".sqlite3", ".db":
		return "sqlite"
	}
	return ""
}

// Load resolves the format of spec and reads the table.
// The logger parameter is passed to the loader (nil uses discard logger).
func Load(ctx context.Context, spec Spec, logger *slog.Logger) (*Loaded, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	format := spec.Format
	if format == "" {
		format = DetectFormat(spec.Path)
	}
	factory, ok := Get(format)
	if !ok {
		return nil, &UnknownFormatError{Format: format, Available: Formats()}
	}
	spec.Format = format

	logger.Debug("loading table", "path", spec.Path, "format", format, "sheet", spec.Sheet)
	loaded, err := factory(logger).Load(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", displayPath(spec), err)
	}
	logger.Info("table loaded",
		"path", loaded.Path,
		"format", loaded.Format,
		"sheet", loaded.Sheet,
		"columns", loaded.Table.ColumnCount(),
		"rows", loaded.Table.RowCount())
	return loaded, nil
}

func displayPath(spec Spec) string {
	if spec.Path == "" {
		return "<input>"
	}
	if spec.Format == "postgres" {
		return "postgres database"
	}
	return spec.Path
}

func tableOptions(spec Spec, logger *slog.Logger) []table.Option {
	opts := []table.Option{table.WithLogger(logger)}
	if spec.MaxColumns > 0 {
		opts = append(opts, table.WithMaxColumns(spec.MaxColumns))
	}
	return opts
}
