package land

import (
	"fmt"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var unitPriceBranch = audit.RuleDef{
	ID:          "L03",
	Name:        "ЗУ и Rnt (8.)",
	Category:    Category,
	Description: "Building columns implied by the building unit price",
	ConfigKeys:  []string{OptLowPrice},
	Build:       buildUnitPriceBranch,
}

func buildUnitPriceBranch(b *audit.Binder) audit.Procedure {
	filter := vocab.BindFilter(b, vocab.KindLand, vocab.KindRent)
	bc := bindBuilding(b)
	low := lowPrice(b)
	mismatch := fmt.Sprintf("Исключительный случай: f('%s') != f('%s')", bc.landPrice.Name, bc.lotPrice.Name)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !filter.Pass(r) {
				continue
			}

			if r.IsZeroOrEmpty(bc.unitPrice) {
				r.ZeroOrEmpty(bc.landPrice)
				r.ZeroOrEmpty(bc.lotPrice)
				r.ZeroOrEmpty(bc.sqmPrice)
				r.ZeroOrEmpty(bc.usage)
				r.ZeroOrEmpty(bc.area)
				r.ZeroOrEmpty(bc.kn)
				r.ZeroOrEmpty(bc.separate)
				continue
			}

			landSet := r.IsNotZeroOrEmpty(bc.landPrice)
			lotSet := r.IsNotZeroOrEmpty(bc.lotPrice)
			switch {
			case landSet && lotSet:
				if r.IsEmpty(bc.landPrice) || r.IsEmpty(bc.lotPrice) {
					bc.markNotNumbers(r)
					continue
				}
				land, lot, err := bc.prices(r)
				if err != nil {
					return err
				}
				if land <= low || lot <= low {
					continue
				}
				r.NotZeroOrEmpty(bc.usage)
				r.NotZeroOrEmpty(bc.area)
				r.NotZeroOrEmpty(bc.kn)
				r.NotZeroOrEmpty(bc.sqmPrice)
				r.NotZeroOrEmpty(bc.separate)

			case !landSet && !lotSet:
				r.NotZeroOrEmpty(bc.usage)
				r.NotZeroOrEmpty(bc.area)
				r.NotZeroOrEmpty(bc.kn)
				r.ZeroOrEmpty(bc.sqmPrice)
				r.ZeroOrEmpty(bc.separate)

			default:
				r.Mark(bc.landPrice, mismatch)
			}
		}
		return nil
	}
}
