package general

import (
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var landUsage = audit.RuleDef{
	ID:          "G05",
	Name:        "Фактическое использование ЗУ (5.)",
	Category:    Category,
	Description: "Actual land usage is always filled",
	Build: func(b *audit.Binder) audit.Procedure {
		usage := b.Column(vocab.LandUsage)
		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				ctx.At(y).NotEmpty(usage)
			}
			return nil
		}
	},
}

var landShare = audit.RuleDef{
	ID:          "G06",
	Name:        "Доля ЗУ (6.)",
	Category:    Category,
	Description: "Rows without a land share are buildings (OKS)",
	Build: func(b *audit.Binder) audit.Procedure {
		share := b.Column(vocab.LandShare)
		kind := b.Column(vocab.ObjectKind)
		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				r := ctx.At(y)
				if r.IsZeroOrEmpty(share) {
					r.Equal(kind, vocab.KindOKS)
				}
			}
			return nil
		}
	},
}

var zoning = audit.RuleDef{
	ID:          "G07",
	Name:        "Зона ПЗЗ и СЭР (7. и 8.)",
	Category:    Category,
	Description: "Zone and SER code are filled and not \"нет\"",
	Build: func(b *audit.Binder) audit.Procedure {
		cols := b.Columns(vocab.Zone, vocab.SERCode)
		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				r := ctx.At(y)
				for _, c := range cols {
					r.That(c, known)
				}
			}
			return nil
		}
	},
}

func known(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != "нет"
}
