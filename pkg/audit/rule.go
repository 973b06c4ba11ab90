package audit

import (
	"errors"
	"iter"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Procedure is the body of a bound rule. A returned error marks the run
// as Errored; problems recorded before it are kept.
type Procedure func(ctx *Context) error

// RuleDef declares a rule.
type RuleDef struct {
	ID          string
	Name        string
	Category    string
	Description string
	// ConfigKeys lists the option keys the rule reads.
	ConfigKeys []string
	// Build resolves the rule's columns and returns its procedure.
	Build func(b *Binder) Procedure
}

// RuleInfo is the serialisable metadata of a rule.
type RuleInfo struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	ConfigKeys  []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
}

// Info returns the metadata of the definition.
func (d RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		Description: d.Description,
		ConfigKeys:  d.ConfigKeys,
	}
}

// Rule is a RuleDef bound to a table.
type Rule struct {
	ID          string
	Name        string
	Category    string
	Description string

	table   *table.Table
	options map[string]any
	proc    Procedure
}

// Table returns the table the rule was bound to.
func (r *Rule) Table() *table.Table {
	return r.table
}

// Binder resolves columns for a RuleDef while it is being bound.
// Lookups never fail immediately; every missing column is collected and
// reported by Bind.
type Binder struct {
	table   *table.Table
	def     *RuleDef
	options map[string]any
	errs    []error
}

// Column resolves a column by name. A missing column is recorded and a
// detached placeholder is returned so Build can finish.
func (b *Binder) Column(name string) *table.Column {
	c, err := b.table.Column(name)
	if err != nil {
		var cfgErr *table.ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Rule = b.def.Name
		}
		b.errs = append(b.errs, err)
		return table.NewColumn(name, -1)
	}
	return c
}

// Columns resolves several columns in order.
func (b *Binder) Columns(names ...string) []*table.Column {
	out := make([]*table.Column, len(names))
	for i, name := range names {
		out[i] = b.Column(name)
	}
	return out
}

// Options returns the options configured for the rule.
func (b *Binder) Options() map[string]any {
	return b.options
}

// Table returns the table being bound.
func (b *Binder) Table() *table.Table {
	return b.table
}

// Fail records a binding error other than a missing column.
func (b *Binder) Fail(err error) {
	b.errs = append(b.errs, err)
}

// Err returns every error recorded while binding, joined.
func (b *Binder) Err() error {
	return errors.Join(b.errs...)
}

// Bind resolves def against t. It fails when any column is missing.
func Bind(def RuleDef, t *table.Table, options map[string]any) (*Rule, error) {
	b := &Binder{table: t, def: &def, options: options}
	proc := def.Build(b)
	if err := b.Err(); err != nil {
		return nil, err
	}
	if proc == nil {
		return nil, &InvalidRuleError{ID: def.ID, Reason: "build returned no procedure"}
	}
	return &Rule{
		ID:          def.ID,
		Name:        def.Name,
		Category:    def.Category,
		Description: def.Description,
		table:       t,
		options:     options,
		proc:        proc,
	}, nil
}

// Context is handed to a Procedure. It embeds the cursor-row Assert.
type Context struct {
	*Assert
	rule *Rule
}

func newContext(r *Rule) *Context {
	result := &Result{rule: r}
	return &Context{
		Assert: NewAssert(r.table, &Cursor{}, result),
		rule:   r,
	}
}

// Rows iterates over every data row in order, moving the cursor along.
func (c *Context) Rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		for y := range c.table.RowCount() {
			c.cursor.Row = y
			if !yield(y) {
				return
			}
		}
	}
}

// Table returns the table under audit.
func (c *Context) Table() *table.Table {
	return c.table
}

// Rule returns the rule being executed.
func (c *Context) Rule() *Rule {
	return c.rule
}

// Options returns the rule options.
func (c *Context) Options() map[string]any {
	return c.rule.options
}

// Result returns the problems recorded so far.
func (c *Context) Result() *Result {
	return c.result
}
