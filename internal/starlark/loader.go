// Package starlark loads user-defined audit rules from Starlark scripts.
//
// Each *.star file in the rules directory calls the predeclared rule()
// builtin:
//
//	def _check(row):
//	    if row.is_equal("Вид ОН", "ZU"):
//	        row.not_zero_or_empty("Площадь ЗУ")
//
//	rule(id = "S01", name = "Площадь ЗУ", category = "Скрипты",
//	     columns = ["Вид ОН", "Площадь ЗУ"], check = _check)
//
// check is called once per data row. Columns are resolved when the rule is
// bound to a table; a row may only read the columns its rule declares.
package starlark

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Loader scans a directory for .star rule files.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for dir. A nil logger discards output.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger}
}

// Load executes every .star file and returns the rules they declare, in
// file name order. A missing directory yields no rules.
func (l *Loader) Load() ([]audit.RuleDef, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules directory: %w", err)
	}

	var defs []audit.RuleDef
	for _, file := range files {
		fileDefs, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

// Register loads the scripts and registers their rules into c.
func (l *Loader) Register(c *audit.Catalog) (int, error) {
	defs, err := l.Load()
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			return 0, fmt.Errorf("rules/%s: %w", def.ID, err)
		}
	}
	if len(defs) > 0 {
		l.logger.Info("script rules loaded", "dir", l.dir, "rules", len(defs))
	}
	return len(defs), nil
}

func (l *Loader) loadFile(path string) ([]audit.RuleDef, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob within the rules directory
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	var defs []audit.RuleDef
	predeclared := starlark.StringDict{
		"rule": starlark.NewBuiltin("rule", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			def, err := l.ruleDef(path, b, args, kwargs)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
			return starlark.None, nil
		}),
	}

	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug("script output", "file", path, "msg", msg)
		},
	}
	if _, err := starlark.ExecFile(thread, path, content, predeclared); err != nil { //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}
	return defs, nil
}

func (l *Loader) ruleDef(path string, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (audit.RuleDef, error) {
	var (
		id, name, category, description string
		columnsVal                      starlark.Value
		checkFn                         starlark.Callable
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"id", &id,
		"name", &name,
		"category", &category,
		"columns", &columnsVal,
		"check", &checkFn,
		"description?", &description,
	); err != nil {
		return audit.RuleDef{}, err
	}
	columns, err := stringList(columnsVal, "columns")
	if err != nil {
		return audit.RuleDef{}, err
	}

	return audit.RuleDef{
		ID:          id,
		Name:        name,
		Category:    category,
		Description: description,
		Build:       scriptBuild(id, filepath.Base(path), columns, checkFn, l.logger),
	}, nil
}

func scriptBuild(id, file string, columns []string, checkFn starlark.Callable, logger *slog.Logger) func(*audit.Binder) audit.Procedure {
	return func(b *audit.Binder) audit.Procedure {
		resolved := b.Columns(columns...)
		cols := make(map[string]*table.Column, len(columns))
		for i, name := range columns {
			cols[name] = resolved[i]
		}
		options, err := GoToStarlark(b.Options())
		if err != nil {
			b.Fail(fmt.Errorf("rule %s options: %w", id, err))
		}

		return func(ctx *audit.Context) error {
			thread := &starlark.Thread{
				Name: "rule:" + id,
				Print: func(_ *starlark.Thread, msg string) {
					logger.Debug("script output", "rule", id, "msg", msg)
				},
			}
			for y := range ctx.Rows() {
				row := &rowValue{row: ctx.At(y), cols: cols, options: options}
				if _, err := starlark.Call(thread, checkFn, starlark.Tuple{row}, nil); err != nil {
					return fmt.Errorf("%s: row %d: %w", file, y+2, err)
				}
			}
			return nil
		}
	}
}

// LoadError represents an error loading a rule script.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rules/%s: %s", filepath.Base(e.File), e.Message)
}
