package land

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var sqmPriceBranch = audit.RuleDef{
	ID:          "L04",
	Name:        "ЗУ и Rnt (9.)",
	Category:    Category,
	Description: "Building columns implied by the price per square metre",
	ConfigKeys:  []string{OptLowPrice},
	Build:       buildSqmPriceBranch,
}

func buildSqmPriceBranch(b *audit.Binder) audit.Procedure {
	filter := vocab.BindFilter(b, vocab.KindLand, vocab.KindRent)
	bc := bindBuilding(b)
	low := lowPrice(b)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !filter.Pass(r) {
				continue
			}

			if r.IsEmpty(bc.sqmPrice) {
				r.ZeroOrEmpty(bc.landPrice)
				r.ZeroOrEmpty(bc.lotPrice)
				r.ZeroOrEmpty(bc.separate)
				if r.IsNotEmpty(bc.unitPrice) {
					r.NotZeroOrEmpty(bc.kn)
					r.NotZeroOrEmpty(bc.usage)
					r.NotZeroOrEmpty(bc.area)
				} else {
					r.ZeroOrEmpty(bc.kn)
					r.ZeroOrEmpty(bc.usage)
					r.ZeroOrEmpty(bc.area)
				}
				continue
			}

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
			r.NotZeroOrEmpty(bc.landPrice)
			r.NotZeroOrEmpty(bc.lotPrice)
			r.NotZeroOrEmpty(bc.unitPrice)
			r.NotZeroOrEmpty(bc.usage)
			r.NotZeroOrEmpty(bc.area)
			r.NotZeroOrEmpty(bc.kn)
			r.NotZeroOrEmpty(bc.separate)
		}
		return nil
	}
}
