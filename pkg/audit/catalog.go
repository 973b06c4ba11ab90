package audit

import (
	"errors"
	"sync"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Category groups rule definitions under a display name.
type Category struct {
	Name  string
	Rules []RuleDef
}

// Catalog stores rule definitions in registration order.
type Catalog struct {
	mu   sync.RWMutex
	defs []RuleDef
	byID map[string]int
	// keyed by category, then name
	names map[string]map[string]struct{}
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:  make(map[string]int),
		names: make(map[string]map[string]struct{}),
	}
}

// Register adds a rule definition.
func (c *Catalog) Register(def RuleDef) error {
	switch {
	case def.ID == "":
		return &InvalidRuleError{ID: def.Name, Reason: "missing id"}
	case def.Name == "":
		return &InvalidRuleError{ID: def.ID, Reason: "missing name"}
	case def.Category == "":
		return &InvalidRuleError{ID: def.ID, Reason: "missing category"}
	case def.Build == nil:
		return &InvalidRuleError{ID: def.ID, Reason: "missing build function"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[def.ID]; ok {
		return &DuplicateRuleError{ID: def.ID}
	}
	if _, ok := c.names[def.Category][def.Name]; ok {
		return &DuplicateRuleError{ID: def.ID, Name: def.Name, Category: def.Category}
	}
	if c.names[def.Category] == nil {
		c.names[def.Category] = make(map[string]struct{})
	}
	c.names[def.Category][def.Name] = struct{}{}
	c.byID[def.ID] = len(c.defs)
	c.defs = append(c.defs, def)
	return nil
}

// MustRegister is Register that panics on error. Use it for built-in rules.
func (c *Catalog) MustRegister(defs ...RuleDef) {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
}

// Defs returns all definitions in registration order.
func (c *Catalog) Defs() []RuleDef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]RuleDef, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns a definition by ID.
func (c *Catalog) Get(id string) (RuleDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return RuleDef{}, false
	}
	return c.defs[i], true
}

// Count returns the number of registered definitions.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}

// Categories groups the definitions by category, in order of first registration.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Category
	index := make(map[string]int)
	for _, def := range c.defs {
		i, ok := index[def.Category]
		if !ok {
			i = len(out)
			index[def.Category] = i
			out = append(out, Category{Name: def.Category})
		}
		out[i].Rules = append(out[i].Rules, def)
	}
	return out
}

// Bind binds every enabled definition to t. All missing columns of all
// rules are reported together, before any row is evaluated.
func (c *Catalog) Bind(t *table.Table, cfg *Config) ([]*Rule, error) {
	var (
		rules []*Rule
		errs  []error
	)
	for _, def := range c.Defs() {
		if cfg.IsDisabled(def.ID) {
			continue
		}
		r, err := Bind(def, t, cfg.Options(def.ID))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}
