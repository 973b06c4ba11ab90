package general

import (
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var otherProperty = audit.RuleDef{
	ID:          "G02",
	Name:        "Прочее имущество (2.)",
	Category:    Category,
	Description: "Rows with other property have a tender or market source filled consistently",
	ConfigKeys:  []string{vocab.OptWebsites},
	Build:       buildOtherProperty,
}

func buildOtherProperty(b *audit.Binder) audit.Procedure {
	other := b.Column(vocab.OtherProperty)
	src := vocab.BindSources(b)
	deal := b.Column(vocab.Deal)
	sets := vocab.FromOptions(b.Options())

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !r.IsNotEmpty(other) {
				continue
			}

			s1 := r.Text(src.S1)
			switch {
			case strings.HasPrefix(s1, vocab.TenderLabel):
				tenderSource(r, src, sets)
			case s1 == vocab.Market:
				r.Equal(src.S2, vocab.Rosreestr)
				r.Empty(src.S3)
				r.Equal(deal, dealSale)
			}
		}
		return nil
	}
}
