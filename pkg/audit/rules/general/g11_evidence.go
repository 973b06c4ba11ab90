package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var documents = audit.RuleDef{
	ID:          "G11",
	Name:        "Докум. (11.)",
	Category:    Category,
	Description: "Documents are attached unless source 2 is a government service",
	ConfigKeys:  []string{vocab.OptGovServices},
	Build: func(b *audit.Binder) audit.Procedure {
		return buildEvidence(b, vocab.Documents)
	},
}

var screenshots = audit.RuleDef{
	ID:          "G12",
	Name:        "Скрины (12.)",
	Category:    Category,
	Description: "Screenshots are attached unless source 2 is a government service",
	ConfigKeys:  []string{vocab.OptGovServices},
	Build: func(b *audit.Binder) audit.Procedure {
		return buildEvidence(b, vocab.Screens)
	},
}

func buildEvidence(b *audit.Binder, name string) audit.Procedure {
	s2 := b.Column(vocab.Source2)
	evidence := b.Column(name)
	sets := vocab.FromOptions(b.Options())

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			// gov services may leave it zero or empty
			if r.Is(s2, sets.GovService) {
				continue
			}
			r.NotZeroOrEmpty(evidence)
		}
		return nil
	}
}
