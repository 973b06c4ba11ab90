package starlark

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// rowValue is the row object passed to a script's check function.
type rowValue struct {
	row     audit.Row
	cols    map[string]*table.Column
	options starlark.Value
}

var _ starlark.HasAttrs = (*rowValue)(nil)

type rowMethod func(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var rowMethods = map[string]rowMethod{
	"text":                 rowText,
	"float":                rowFloat,
	"is_empty":             probe(audit.Row.IsEmpty),
	"is_not_empty":         probe(audit.Row.IsNotEmpty),
	"is_zero_or_empty":     probe(audit.Row.IsZeroOrEmpty),
	"is_not_zero_or_empty": probe(audit.Row.IsNotZeroOrEmpty),
	"is_equal":             probeValue(audit.Row.IsEqual),
	"is_not_equal":         probeValue(audit.Row.IsNotEqual),
	"is_contains":          probeValue(audit.Row.IsContains),
	"empty":                check(audit.Row.Empty),
	"not_empty":            check(audit.Row.NotEmpty),
	"zero_or_empty":        check(audit.Row.ZeroOrEmpty),
	"not_zero_or_empty":    check(audit.Row.NotZeroOrEmpty),
	"equal":                checkValue(audit.Row.Equal),
	"not_equal":            checkValue(audit.Row.NotEqual),
	"contains":             checkValue(audit.Row.Contains),
	"not_contains":         checkValue(audit.Row.NotContains),
	"mark":                 rowMark,
}

func (r *rowValue) String() string        { return fmt.Sprintf("<row %d>", r.row.Index()+2) }
func (r *rowValue) Type() string          { return "row" }
func (r *rowValue) Freeze()               {}
func (r *rowValue) Truth() starlark.Bool  { return starlark.True }
func (r *rowValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: row") }

// Attr implements starlark.HasAttrs.
func (r *rowValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "number":
		return starlark.MakeInt(r.row.Index() + 2), nil
	case "options":
		return r.options, nil
	}
	m, ok := rowMethods[name]
	if !ok {
		return nil, nil
	}
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return m(r, b, args, kwargs)
	}), nil
}

// AttrNames implements starlark.HasAttrs.
func (r *rowValue) AttrNames() []string {
	names := []string{"number", "options"}
	for name := range rowMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *rowValue) column(name string) (*table.Column, error) {
	c, ok := r.cols[name]
	if !ok {
		return nil, fmt.Errorf("column %q is not declared in the rule's columns", name)
	}
	return c, nil
}

func explainText(s string) []audit.ExplainFunc {
	if s == "" {
		return nil
	}
	return []audit.ExplainFunc{func(string) string { return s }}
}

func rowText(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name); err != nil {
		return nil, err
	}
	c, err := r.column(name)
	if err != nil {
		return nil, err
	}
	return starlark.String(r.row.Text(c)), nil
}

func rowFloat(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name); err != nil {
		return nil, err
	}
	c, err := r.column(name)
	if err != nil {
		return nil, err
	}
	v, err := r.row.Float(c)
	if err != nil {
		return nil, err
	}
	return starlark.Float(v), nil
}

func rowMark(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, explanation string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name, "explanation", &explanation); err != nil {
		return nil, err
	}
	c, err := r.column(name)
	if err != nil {
		return nil, err
	}
	r.row.Mark(c, explanation)
	return starlark.None, nil
}

func probe(fn func(audit.Row, *table.Column) bool) rowMethod {
	return func(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name); err != nil {
			return nil, err
		}
		c, err := r.column(name)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(fn(r.row, c)), nil
	}
}

func probeValue(fn func(audit.Row, *table.Column, string) bool) rowMethod {
	return func(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, value string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name, "value", &value); err != nil {
			return nil, err
		}
		c, err := r.column(name)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(fn(r.row, c, value)), nil
	}
}

func check(fn func(audit.Row, *table.Column, ...audit.ExplainFunc)) rowMethod {
	return func(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, explanation string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name, "explanation?", &explanation); err != nil {
			return nil, err
		}
		c, err := r.column(name)
		if err != nil {
			return nil, err
		}
		fn(r.row, c, explainText(explanation)...)
		return starlark.None, nil
	}
}

func checkValue(fn func(audit.Row, *table.Column, string, ...audit.ExplainFunc)) rowMethod {
	return func(r *rowValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, value, explanation string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "col", &name, "value", &value, "explanation?", &explanation); err != nil {
			return nil, err
		}
		c, err := r.column(name)
		if err != nil {
			return nil, err
		}
		fn(r.row, c, value, explainText(explanation)...)
		return starlark.None, nil
	}
}
