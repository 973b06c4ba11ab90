package land

import (
	"fmt"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// building holds the building price columns read by L02 to L04.
type building struct {
	lotPrice  *table.Column
	landPrice *table.Column
	unitPrice *table.Column
	sqmPrice  *table.Column
	separate  *table.Column
	usage     *table.Column
	kn        *table.Column
	area      *table.Column
}

func bindBuilding(b *audit.Binder) building {
	return building{
		lotPrice:  b.Column(vocab.BuildingLotPrice),
		landPrice: b.Column(vocab.BuildingLandPrice),
		unitPrice: b.Column(vocab.BuildingUnitPrice),
		sqmPrice:  b.Column(vocab.BuildingSqmPrice),
		separate:  b.Column(vocab.PriceSeparate),
		usage:     b.Column(vocab.BuildingUsage),
		kn:        b.Column(vocab.BuildingKN),
		area:      b.Column(vocab.BuildingArea),
	}
}

func lowPrice(b *audit.Binder) float64 {
	return audit.GetFloatOption(b.Options(), OptLowPrice, DefaultLowPrice)
}

// markNotNumbers records that the two building prices must both be numbers.
func (bc building) markNotNumbers(r audit.Row) {
	r.Mark(bc.landPrice, fmt.Sprintf(
		"Ожидалось, что столбцы '%s' и '%s' будут содержать числа, но получены '%s' и '%s'",
		bc.landPrice.Name, bc.lotPrice.Name, r.Text(bc.landPrice), r.Text(bc.lotPrice)))
}

// prices parses both building prices. A parse failure aborts the rule.
func (bc building) prices(r audit.Row) (land, lot float64, err error) {
	if land, err = r.Float(bc.landPrice); err != nil {
		return 0, 0, err
	}
	if lot, err = r.Float(bc.lotPrice); err != nil {
		return 0, 0, err
	}
	return land, lot, nil
}
