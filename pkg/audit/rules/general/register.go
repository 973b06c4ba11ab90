package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// Category is the display name of the package's rules.
const Category = "Общие"

// Rules returns the rule definitions in catalog order.
func Rules() []audit.RuleDef {
	return []audit.RuleDef{
		yearCodes,
		otherProperty,
		lotPrice,
		excessCoefficient,
		landUsage,
		landShare,
		zoning,
		firstSource,
		secondSource,
		documents,
		screenshots,
		demolition,
		buildingUsage,
		buildingArea,
		subsegment,
	}
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
