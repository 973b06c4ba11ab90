// Package land provides the registry rules of the "ЗУ" category. They apply
// to land (ZU) and rent (Rnt) rows that are neither archived nor part of a
// single lot.
//
// L02 to L04 skip their cross-column checks when either building price is
// at or below the low_price option (default 10). Each rule reads the option
// on its own and applies it in its own way.
package land

import "github.com/leapstack-labs/regaudit/pkg/audit"

// Category is the display name of the package's rules.
const Category = "ЗУ"

// OptLowPrice is the option key of the negligible price threshold.
const OptLowPrice = "low_price"

// DefaultLowPrice is used when low_price is not configured.
const DefaultLowPrice = 10.0

// Rules returns the rule definitions in catalog order.
func Rules() []audit.RuleDef {
	return []audit.RuleDef{landRent, lotPriceBranch, unitPriceBranch, sqmPriceBranch}
}

// Register adds the rules to c.
func Register(c *audit.Catalog) error {
	for _, def := range Rules() {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}
