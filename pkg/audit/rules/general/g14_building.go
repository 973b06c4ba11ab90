package general

import (
	"fmt"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

var buildingUsage = audit.RuleDef{
	ID:          "G14",
	Name:        "Факт. исп. ОКС (14.)",
	Category:    Category,
	Description: "Building usage requires a cadastral number; without usage the number is empty or fictitious",
	Build:       buildBuildingUsage,
}

func buildBuildingUsage(b *audit.Binder) audit.Procedure {
	usage := b.Column(vocab.BuildingUsage)
	kn := b.Column(vocab.BuildingKN)
	extra := b.Column(vocab.ExtraFilter)
	explanation := fmt.Sprintf(
		"Для пустого '%s' ожидалось, что '%s' = <пусто> или '%s' будет содержать '%s'",
		usage.Name(), kn.Name(), extra.Name(), vocab.FictiveKN)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if r.IsNotEmpty(usage) {
				r.NotEmpty(kn)
				continue
			}
			if !noRealNumber(r, kn, extra) {
				r.Mark(kn, explanation)
			}
		}
		return nil
	}
}

var buildingArea = audit.RuleDef{
	ID:          "G15",
	Name:        "Площадь ОКС (15.)",
	Category:    Category,
	Description: "A real building cadastral number requires a building area",
	Build: func(b *audit.Binder) audit.Procedure {
		area := b.Column(vocab.BuildingArea)
		kn := b.Column(vocab.BuildingKN)
		extra := b.Column(vocab.ExtraFilter)
		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				r := ctx.At(y)
				if !noRealNumber(r, kn, extra) {
					r.NotZeroOrEmpty(area)
				}
			}
			return nil
		}
	},
}

// noRealNumber reports whether the cadastral number is empty or marked fictitious.
func noRealNumber(r audit.Row, kn, extra *table.Column) bool {
	return r.IsEmpty(kn) || r.IsContains(extra, vocab.FictiveKN)
}

var subsegment = audit.RuleDef{
	ID:          "G16",
	Name:        "Подсегмент (16.)",
	Category:    Category,
	Description: "Kitchen-garden subsegment rows are land plots",
	Build: func(b *audit.Binder) audit.Procedure {
		sub := b.Column(vocab.Subsegment)
		kind := b.Column(vocab.ObjectKind)
		return func(ctx *audit.Context) error {
			for y := range ctx.Rows() {
				r := ctx.At(y)
				if r.IsEqual(sub, "ОГОРОД") {
					r.Equal(kind, vocab.KindLand)
				}
			}
			return nil
		}
	},
}
