package enc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rt "github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/registrytest"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

func TestE01_ComplexRows(t *testing.T) {
	tbl := rt.Table(t,
		rt.Row{
			vocab.ObjectKind: "ENC", vocab.LandSellPrice: "1", vocab.LandUnitPrice: "1",
			vocab.ExtraFilter: "Фиктивный КН", vocab.BuildingArea: "0", vocab.BuildingKN: "78:1",
		},
		rt.Row{
			vocab.ObjectKind: "ENC", vocab.LandSellPrice: "1", vocab.LandUnitPrice: "1",
			vocab.BuildingArea: "10", vocab.BuildingKN: "1",
		},
		rt.Row{
			vocab.ObjectKind: "ENC", vocab.LandSellPrice: "1", vocab.LandUnitPrice: "1",
			vocab.BuildingUnitPrice: "5", vocab.BuildingArea: "0", vocab.PriceSeparate: "V",
		},
		rt.Row{vocab.ObjectKind: "ENC", vocab.ExtraFilter: "АРХИВ"},
		rt.Row{vocab.ObjectKind: "ZU"},
	)

	run := rt.Run(t, complexRows, tbl, nil)
	assert.Equal(t, []string{
		"Уд. цена на 1 кв. м ОКС@1",
		"Площадь ОКС@2",
		"Стоимость ОКС указана отдельно@2",
		"Кад. номер ОКС@2",
	}, rt.Cells(run))

	require.Len(t, run.Problems, 4)
	assert.Equal(t,
		"Колонка 'Уд. цена на 1 кв. м ОКС' пуста, а 'Дополн. фильтр' = '' и 'Площадь ОКС' = '10'",
		run.Problems[0].Explanation)
	assert.Equal(t,
		"Для НЕ 'Фиктивный КН' ожидалось, что 'Площадь ОКС' будет НЕ равна 0, но получено '0'",
		run.Problems[1].Explanation)
}
