package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var lotPrice = audit.RuleDef{
	ID:          "G03",
	Name:        "Нач. общ. стоим. лота (3.)",
	Category:    Category,
	Description: "A starting lot price implies an excess coefficient and a tender source",
	ConfigKeys:  []string{vocab.OptWebsites},
	Build: func(b *audit.Binder) audit.Procedure {
		return buildTenderPair(b, vocab.LotPrice, vocab.Coefficient)
	},
}

var excessCoefficient = audit.RuleDef{
	ID:          "G04",
	Name:        "Коэф. превышения (4.)",
	Category:    Category,
	Description: "An excess coefficient implies a starting lot price and a tender source",
	ConfigKeys:  []string{vocab.OptWebsites},
	Build: func(b *audit.Binder) audit.Procedure {
		return buildTenderPair(b, vocab.Coefficient, vocab.LotPrice)
	},
}

// buildTenderPair checks rows where trigger is filled: partner must be
// non-zero and the sources must describe a tender.
func buildTenderPair(b *audit.Binder, trigger, partner string) audit.Procedure {
	when := b.Column(trigger)
	then := b.Column(partner)
	src := vocab.BindSources(b)
	sets := vocab.FromOptions(b.Options())
	tender := audit.HasPrefix(vocab.TenderLabel)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !r.IsNotEmpty(when) {
				continue
			}
			r.NotZeroOrEmpty(then)
			r.That(src.S1, tender)
			tenderSource(r, src, sets)
		}
		return nil
	}
}
