// Package enc provides the registry rule of the "ЕНК" category (single
// real-estate complexes).
package enc

import (
	"fmt"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

// Category is the display name of the package's rules.
const Category = "ЕНК"

// Rules returns the rule definitions in catalog order.
func Rules() []audit.RuleDef {
	return []audit.RuleDef{complexRows}
}

// Register adds the rules to c.
func Register(c *audit.Catalog) error {
	for _, def := range Rules() {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}

var complexRows = audit.RuleDef{
	ID:          "E01",
	Name:        "ЕНК",
	Category:    Category,
	Description: "Complex rows carry land prices and a cadastral number, but no separate building prices",
	Build:       buildComplexRows,
}

func buildComplexRows(b *audit.Binder) audit.Procedure {
	filter := vocab.BindFilter(b, vocab.KindENC)
	extra := b.Column(vocab.ExtraFilter)
	landPrice := b.Column(vocab.LandSellPrice)
	landUnit := b.Column(vocab.LandUnitPrice)
	unit := b.Column(vocab.BuildingUnitPrice)
	area := b.Column(vocab.BuildingArea)
	empty := b.Columns(
		vocab.BuildingLotPrice,
		vocab.BuildingLandPrice,
		vocab.BuildingSqmPrice,
		vocab.PriceSeparate,
	)
	kn := b.Column(vocab.BuildingKN)

	areaExplain := func(actual string) string {
		return fmt.Sprintf("Для НЕ '%s' ожидалось, что '%s' будет НЕ равна 0, но получено '%s'", vocab.FictiveKN, area.Name(), actual)
	}

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !filter.Pass(r) {
				continue
			}

			r.NotEmpty(landPrice)
			r.NotEmpty(landUnit)

			fictive := r.IsEqual(extra, vocab.FictiveKN)
			if r.IsEmpty(unit) {
				if !fictive || !r.IsZeroOrEmpty(area) {
					r.Mark(unit, fmt.Sprintf("Колонка '%s' пуста, а '%s' = '%s' и '%s' = '%s'",
						unit.Name(), extra.Name(), r.Text(extra), area.Name(), r.Text(area)))
				}
			} else if !fictive {
				r.NotZeroOrEmpty(area, areaExplain)
			}

			for _, c := range empty {
				r.Empty(c)
			}
			r.NotEmpty(kn)
		}
		return nil
	}
}
