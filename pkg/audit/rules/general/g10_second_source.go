package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var secondSource = audit.RuleDef{
	ID:          "G10",
	Name:        "Источник 2 (10.)",
	Category:    Category,
	Description: "Columns implied by the value of source 2",
	ConfigKeys:  []string{vocab.OptWebsites},
	Build:       buildSecondSource,
}

func buildSecondSource(b *audit.Binder) audit.Procedure {
	src := vocab.BindSources(b)
	deal := b.Column(vocab.Deal)
	link := b.Column(vocab.Link)
	portal := b.Column(vocab.Portal)
	note := b.Column(vocab.LandNote)
	sets := vocab.FromOptions(b.Options())

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			switch {
			case r.IsEqual(src.S2, vocab.Rosreestr):
				r.Equal(src.S1, vocab.Market)
				r.Empty(src.S3)
				r.Contains(link, "rosreestr")
				r.Equal(portal, rosreestrURL)
				r.Equal(deal, dealSale)
				r.ZeroOrEmpty(src.Screens)

			case r.IsEqual(src.S2, vocab.AgencyGBUKO):
				r.NotEmpty(src.Doc)
				r.NotZeroOrEmpty(src.Screens)
				if r.IsEqual(src.S1, vocab.Market) && r.Is(src.S3, sets.Website) {
					r.That(note, directSale)
				}
			}
		}
		return nil
	}
}
