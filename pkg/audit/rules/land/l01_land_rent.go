package land

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var landRent = audit.RuleDef{
	ID:          "L01",
	Name:        "ЗУ и Rnt (1.-6.)",
	Category:    Category,
	Description: "Land price, unit price and areas are filled for land and rent rows",
	Build: func(b *audit.Binder) audit.Procedure {
		filter := vocab.BindFilter(b, vocab.KindLand, vocab.KindRent)
		required := b.Columns(
			vocab.LandSellPrice,
			vocab.LandUnitPrice,
			vocab.LotArea,
			vocab.LandArea,
			vocab.LandShare,
			vocab.LandShareArea,
		)

		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				r := ctx.At(y)
				if !filter.Pass(r) {
					continue
				}
				for _, c := range required {
					r.NotZeroOrEmpty(c)
				}
			}
			return nil
		}
	},
}
