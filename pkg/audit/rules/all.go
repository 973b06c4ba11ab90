// Package rules registers the built-in registry rules.
package rules

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/enc"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/general"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/land"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/oks"
)

// RegisterAll adds every built-in rule to c, category by category.
func RegisterAll(c *audit.Catalog) error {
	for _, register := range []func(*audit.Catalog) error{
		general.Register,
		land.Register,
		enc.Register,
		oks.Register,
	} {
		if err := register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewCatalog returns a catalog holding the built-in rules.
func NewCatalog() (*audit.Catalog, error) {
	c := audit.NewCatalog()
	if err := RegisterAll(c); err != nil {
		return nil, err
	}
	return c, nil
}
