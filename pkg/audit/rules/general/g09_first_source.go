package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var firstSource = audit.RuleDef{
	ID:          "G09",
	Name:        "Источник 1 (9.)",
	Category:    Category,
	Description: "Columns implied by the value of source 1",
	ConfigKeys:  []string{vocab.OptWebsites},
	Build:       buildFirstSource,
}

func buildFirstSource(b *audit.Binder) audit.Procedure {
	src := vocab.BindSources(b)
	deal := b.Column(vocab.Deal)
	link := b.Column(vocab.Link)
	portal := b.Column(vocab.Portal)
	price := b.Column(vocab.LotPrice)
	coef := b.Column(vocab.Coefficient)
	right := b.Column(vocab.LandRight)
	note := b.Column(vocab.LandNote)
	sets := vocab.FromOptions(b.Options())
	tender := audit.HasPrefix(vocab.TenderLabel)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			switch {
			case r.IsEqual(src.S1, databaseSrc):
				r.Equal(src.S2, vocab.AgencyGBUKO)
				r.Equal(src.S3, disputeSrc)
				r.Equal(link, noLink)
				r.Equal(portal, noLink)
				r.NotZeroOrEmpty(src.Doc)
				r.NotZeroOrEmpty(src.Screens)
				r.Equal(deal, dealSale)
				r.NotContains(right, "Аренда")

			case r.Is(src.S1, tender):
				tenderSource(r, src, sets)
				r.NotEmpty(price)
				r.NotEmpty(coef)

			case r.IsEqual(src.S1, vocab.Market) && r.IsEqual(src.S2, vocab.AgencyGBUKO):
				r.NotEmpty(src.Doc)
				r.NotEmpty(src.S3)
				if r.Is(src.S3, sets.Website) {
					r.That(note, directSale)
				}
				r.NotZeroOrEmpty(src.Screens)

			case r.IsEqual(src.S1, vocab.Market) && r.IsEqual(src.S2, vocab.Rosreestr):
				r.Empty(src.S3)
				r.Contains(link, "rosreestr")
				r.Equal(portal, rosreestrURL)
				r.Equal(deal, dealSale)
			}
		}
		return nil
	}
}
