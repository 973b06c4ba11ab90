package oks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	rt "github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/registrytest"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

func building(cells rt.Row) rt.Row {
	row := rt.Row{
		vocab.ObjectKind:        "OKS",
		vocab.LotSellPrice:      "100",
		vocab.BuildingLotPrice:  "100",
		vocab.BuildingLandPrice: "100",
		vocab.BuildingUnitPrice: "1",
		vocab.LotArea:           "1",
		vocab.BuildingArea:      "1",
		vocab.BuildingUsage:     "Офис",
		vocab.LandShareArea:     "1",
	}
	for k, v := range cells {
		row[k] = v
	}
	return row
}

func TestO01_BuildingRows(t *testing.T) {
	tbl := rt.Table(t,
		building(nil),
		building(rt.Row{vocab.BuildingLotPrice: "90"}),
		building(rt.Row{vocab.LandShare: "0,5", vocab.PriceSeparate: "V"}),
		rt.Row{vocab.ObjectKind: "OKS", vocab.SingleLot: "Единый лот"},
	)

	run := rt.Run(t, buildingRows, tbl, nil)
	require.NoError(t, run.Err)
	assert.Equal(t, audit.Failed, run.Status)
	assert.Equal(t, []string{
		"Цена продажи ЛОТ@1",
		"Доля ЗУ@2",
		"Стоимость ОКС указана отдельно@2",
	}, rt.Cells(run))
	assert.Equal(t, "Цены продажи лота, ОКС (лот) и ОКС (ЗУ) не совпадают", run.Problems[0].Explanation)
}

func TestO01_UnparsablePriceErrors(t *testing.T) {
	tbl := rt.Table(t,
		building(rt.Row{vocab.LandSellPrice: "5"}),
		building(rt.Row{vocab.BuildingLandPrice: ""}),
		building(nil),
	)

	run := rt.Run(t, buildingRows, tbl, nil)
	assert.Equal(t, audit.Errored, run.Status)

	var parseErr *table.ParseError
	require.ErrorAs(t, run.Err, &parseErr)
	assert.Equal(t, 1, parseErr.Row)
	assert.Equal(t, vocab.BuildingLandPrice, parseErr.Column)

	// problems recorded before the failure are kept
	assert.Equal(t, []string{"Цена продажи ЗУ@0"}, rt.Cells(run))
}
