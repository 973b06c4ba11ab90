// Package oks provides the registry rule of the "ОКС" category (capital
// construction objects).
package oks

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

// Category is the display name of the package's rules.
const Category = "ОКС"

// Rules returns the rule definitions in catalog order.
func Rules() []audit.RuleDef {
	return []audit.RuleDef{buildingRows}
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

var buildingRows = audit.RuleDef{
	ID:       "O01",
	Name:     "ОКС",
	Category: Category,
	Description: "Building rows have matching lot and building prices, areas and usage, and no land price. " +
		"The three prices must parse as numbers.",
	Build: buildBuildingRows,
}

func buildBuildingRows(b *audit.Binder) audit.Procedure {
	filter := vocab.BindFilter(b, vocab.KindOKS)
	landPrice := b.Column(vocab.LandSellPrice)
	landUnit := b.Column(vocab.LandUnitPrice)
	lotPrice := b.Column(vocab.LotSellPrice)
	bLotPrice := b.Column(vocab.BuildingLotPrice)
	bLandPrice := b.Column(vocab.BuildingLandPrice)
	unit := b.Column(vocab.BuildingUnitPrice)
	lotArea := b.Column(vocab.LotArea)
	area := b.Column(vocab.BuildingArea)
	usage := b.Column(vocab.BuildingUsage)
	share := b.Column(vocab.LandShare)
	shareArea := b.Column(vocab.LandShareArea)
	separate := b.Column(vocab.PriceSeparate)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			if !filter.Pass(r) {
				continue
			}

			r.ZeroOrEmpty(landPrice)
			r.ZeroOrEmpty(landUnit)

			lot, err := r.Float(lotPrice)
			if err != nil {
				return err
			}
			bLot, err := r.Float(bLotPrice)
			if err != nil {
				return err
			}
			bLand, err := r.Float(bLandPrice)
			if err != nil {
				return err
			}
			if lot != bLot || bLot != bLand {
				r.Mark(lotPrice, "Цены продажи лота, ОКС (лот) и ОКС (ЗУ) не совпадают")
			}

			r.NotZeroOrEmpty(lotPrice)
			r.NotZeroOrEmpty(bLotPrice)
			r.NotZeroOrEmpty(bLandPrice)
			r.NotZeroOrEmpty(unit)
			r.NotZeroOrEmpty(lotArea)
			r.NotZeroOrEmpty(area)
			r.NotZeroOrEmpty(usage)
			r.ZeroOrEmpty(share)
			r.NotZeroOrEmpty(shareArea)
			r.Empty(separate)
		}
		return nil
	}
}
