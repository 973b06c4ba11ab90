package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // sqlite driver

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// ErrNoQuery is returned when a SQL source has neither a query nor a table name.
var ErrNoQuery = errors.New("sql source needs a query or a table name")

func init() {
	for format, driver := range map[string]string{
		"duckdb":   "duckdb",
		"sqlite":   "sqlite",
		"postgres": "pgx",
	} {
		Register(format, func(logger *slog.Logger) Loader {
			return &SQL{format: format, driver: driver, logger: logger}
		})
	}
}

// SQL loads the result of a query through database/sql. Path is the DSN:
// a database file for duckdb and sqlite, a connection URL for postgres.
// An in-memory duckdb (":memory:") can read csv and parquet files directly
// with a query such as SELECT * FROM read_parquet('registry.parquet').
type SQL struct {
	format string
	driver string
	db     *sql.DB
	logger *slog.Logger
}

// NewSQL returns a loader over an already open database. The caller keeps
// ownership of db.
func NewSQL(format string, db *sql.DB, logger *slog.Logger) *SQL {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQL{format: format, db: db, logger: logger}
}

// Load implements Loader.
func (s *SQL) Load(ctx context.Context, spec Spec) (*Loaded, error) {
	query, err := buildQuery(spec)
	if err != nil {
		return nil, err
	}

	db := s.db
	if db == nil {
		dsn := spec.Path
		if dsn == "" && s.format == "duckdb" {
			dsn = ":memory:"
		}
		db, err = sql.Open(s.driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s connection: %w", s.format, err)
		}
		defer func() { _ = db.Close() }()

		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping %s: %w", s.format, err)
		}
	}

	s.logger.Debug("executing source query", "format", s.format, "query", query)
	header, records, err := queryRecords(ctx, db, query)
	if err != nil {
		return nil, err
	}

	t, err := table.FromRecords(header, records, tableOptions(spec, s.logger)...)
	if err != nil {
		return nil, err
	}
	return &Loaded{Table: t, Format: s.format, Path: spec.Path, Sheet: spec.Sheet}, nil
}

func buildQuery(spec Spec) (string, error) {
	if q := strings.TrimSpace(spec.Query); q != "" {
		return q, nil
	}
	if spec.Sheet == "" {
		return "", ErrNoQuery
	}
	return "SELECT * FROM " + quoteIdent(spec.Sheet), nil
}

// quoteIdent quotes a possibly schema-qualified table name.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func queryRecords(ctx context.Context, db *sql.DB, query string) ([]string, [][]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var records [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row %d: %w", len(records)+1, err)
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = formatValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return header, records, nil
}

// formatValue renders a scanned value the way it would appear in a cell.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
