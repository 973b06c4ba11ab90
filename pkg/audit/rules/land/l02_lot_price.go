package land

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var lotPriceBranch = audit.RuleDef{
	ID:          "L02",
	Name:        "ЗУ и Rnt (7.)",
	Category:    Category,
	Description: "Building columns implied by the building lot price",
	ConfigKeys:  []string{OptLowPrice},
	Build:       buildLotPriceBranch,
}

func buildLotPriceBranch(b *audit.Binder) audit.Procedure {
	filter := vocab.BindFilter(b, vocab.KindLand, vocab.KindRent)
	bc := bindBuilding(b)
	low := lowPrice(b)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !filter.Pass(r) {
				continue
			}

			if !r.IsNotZeroOrEmpty(bc.lotPrice) {
				r.Empty(bc.separate)
				r.ZeroOrEmpty(bc.landPrice)
				r.ZeroOrEmpty(bc.sqmPrice)
				if r.IsNotZeroOrEmpty(bc.unitPrice) {
					r.NotZeroOrEmpty(bc.kn)
					r.NotZeroOrEmpty(bc.area)
					r.NotZeroOrEmpty(bc.usage)
				} else {
					r.ZeroOrEmpty(bc.kn)
					r.ZeroOrEmpty(bc.area)
					r.ZeroOrEmpty(bc.usage)
				}
				continue
			}

			r.Equal(bc.separate, "V")
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
			r.NotZeroOrEmpty(bc.unitPrice)
			r.NotZeroOrEmpty(bc.landPrice)
			r.NotZeroOrEmpty(bc.sqmPrice)
			r.NotZeroOrEmpty(bc.usage)
			r.NotZeroOrEmpty(bc.kn)
			r.NotZeroOrEmpty(bc.area)
		}
		return nil
	}
}
