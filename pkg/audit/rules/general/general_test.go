package general

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	rt "github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/registrytest"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

func TestGeneralRules(t *testing.T) {
	tests := []struct {
		name      string
		def       audit.RuleDef
		rows      []rt.Row
		opts      map[string]any
		wantCells []string
	}{
		{
			name: "G01 year codes",
			def:  yearCodes,
			rows: []rt.Row{
				{vocab.Year: "2023", vocab.LotCode: "2023-01", vocab.Lot: "Лот 2023", vocab.ObjectCode: "ОН-2023", vocab.UniqueNumber: "2023/1"},
				{vocab.Year: "", vocab.LotCode: "2023-01"},
				{vocab.Year: "2023", vocab.LotCode: "2022-01", vocab.Lot: "2023", vocab.ObjectCode: "2023", vocab.UniqueNumber: "2023"},
			},
			wantCells: []string{"Год@1", "Код лота@2"},
		},
		{
			name: "G02 other property",
			def:  otherProperty,
			rows: []rt.Row{
				{vocab.OtherProperty: "100", vocab.Source1: "Торги РАД", vocab.Source2: "ГБУ КО", vocab.Source3: "РАД", vocab.Documents: "1", vocab.Screens: "2"},
				{vocab.OtherProperty: "100", vocab.Source1: "Рынок", vocab.Source2: "ГБУ КО", vocab.Source3: "x"},
				{vocab.OtherProperty: "", vocab.Source1: "Рынок"},
				{vocab.OtherProperty: "5", vocab.Source1: "Торги"},
			},
			wantCells: []string{"Источник 2@1", "Источник 3@1", "Вид сделки@1"},
		},
		{
			name: "G03 lot price",
			def:  lotPrice,
			rows: []rt.Row{
				{vocab.LotPrice: "1000", vocab.Coefficient: "0", vocab.Source1: "Рынок", vocab.Source2: "ГБУ КО", vocab.Source3: "РАД", vocab.Documents: "1", vocab.Screens: "1"},
				{vocab.LotPrice: "", vocab.Coefficient: "0"},
			},
			wantCells: []string{"Коэф. превышения@0", "Источник 1@0"},
		},
		{
			name: "G04 excess coefficient",
			def:  excessCoefficient,
			rows: []rt.Row{
				{vocab.Coefficient: "1,2", vocab.LotPrice: "1000", vocab.Source1: "Торги РАД", vocab.Source2: "ГБУ КО", vocab.Source3: "Сайт", vocab.Documents: "1", vocab.Screens: "1"},
			},
			wantCells: []string{"Источник 3@0"},
		},
		{
			name: "G05 land usage",
			def:  landUsage,
			rows: []rt.Row{
				{vocab.LandUsage: "ИЖС"},
				{vocab.LandUsage: "  "},
			},
			wantCells: []string{"Факт. использование ЗУ@1"},
		},
		{
			name: "G06 land share",
			def:  landShare,
			rows: []rt.Row{
				{vocab.LandShare: "0", vocab.ObjectKind: "ZU"},
				{vocab.LandShare: "", vocab.ObjectKind: "OKS"},
				{vocab.LandShare: "0.5", vocab.ObjectKind: "ZU"},
			},
			wantCells: []string{"Вид ОН@0"},
		},
		{
			name: "G07 zoning",
			def:  zoning,
			rows: []rt.Row{
				{vocab.Zone: "нет", vocab.SERCode: ""},
				{vocab.Zone: "Ж1", vocab.SERCode: "78:1"},
			},
			wantCells: []string{"Зона ПЗЗ@0", "Код СЭР@0"},
		},
		{
			name: "G09 first source",
			def:  firstSource,
			rows: []rt.Row{
				{
					vocab.Source1: "База данных", vocab.Source2: "ГБУ КО", vocab.Source3: "Комиссия/Суд по оспариванию КС",
					vocab.Link: "---", vocab.Portal: "---", vocab.Documents: "1", vocab.Screens: "1",
					vocab.Deal: "Сделка", vocab.LandRight: "Аренда 49 лет",
				},
				{vocab.Source1: "Рынок", vocab.Source2: "ГБУ КО", vocab.Source3: "РАД", vocab.Documents: "1", vocab.LandNote: "прямая продажа", vocab.Screens: "0"},
				{vocab.Source1: "Рынок", vocab.Source2: "ГБУ КО", vocab.Source3: "РАД", vocab.Documents: "1", vocab.LandNote: "аукцион", vocab.Screens: "2"},
				{vocab.Source1: "Рынок", vocab.Source2: "Росреестр", vocab.Link: "https://rosreestr.gov.ru/x", vocab.Portal: "rosreestr.gov.ru", vocab.Deal: "Сделка"},
				{vocab.Source1: "Торги по банкротству", vocab.Source2: "ГБУ КО", vocab.Source3: "другое", vocab.Documents: "1", vocab.Screens: "1", vocab.Coefficient: "1.1"},
			},
			wantCells: []string{
				"Право ЗУ@0",
				"Кол-во основных скринов@1",
				"Примечание (ЗУ)@2",
				"Нач. общ. стоим. лота@4",
			},
		},
		{
			name: "G10 second source",
			def:  secondSource,
			rows: []rt.Row{
				{vocab.Source2: "Росреестр", vocab.Source1: "Торги x", vocab.Link: "rosreestr", vocab.Portal: "rosreestr.gov.ru", vocab.Deal: "Сделка", vocab.Screens: "3"},
				{vocab.Source2: "ГБУ КО", vocab.Screens: "1", vocab.Source1: "Рынок", vocab.Source3: "Фонд Имущества", vocab.LandNote: "Прямая продажа"},
			},
			wantCells: []string{"Источник 1@0", "Кол-во основных скринов@0", "Докум.@1"},
		},
		{
			name: "G11 documents",
			def:  documents,
			rows: []rt.Row{
				{vocab.Source2: "Росреестр", vocab.Documents: ""},
				{vocab.Source2: "ГБУ КО", vocab.Documents: "0"},
			},
			wantCells: []string{"Докум.@1"},
		},
		{
			name: "G11 documents with configured gov services",
			def:  documents,
			opts: map[string]any{vocab.OptGovServices: []any{"ГБУ КО"}},
			rows: []rt.Row{
				{vocab.Source2: "Росреестр", vocab.Documents: ""},
				{vocab.Source2: "ГБУ КО", vocab.Documents: "0"},
			},
			wantCells: []string{"Докум.@0"},
		},
		{
			name: "G12 screenshots",
			def:  screenshots,
			rows: []rt.Row{
				{vocab.Source2: "ГУИОН"},
				{vocab.Source2: "ГБУ КО", vocab.Screens: "4"},
				{vocab.Source2: "", vocab.Screens: ""},
			},
			wantCells: []string{"Кол-во основных скринов@2"},
		},
		{
			name: "G13 demolition",
			def:  demolition,
			rows: []rt.Row{
				{vocab.Demolition: "Снос", vocab.BuildingArea: "0"},
				{vocab.Demolition: "Ремонт", vocab.ObjectKind: "ENC", vocab.SingleLot: "Единый лот", vocab.BuildingArea: "0"},
				{vocab.Demolition: "Реконструкция", vocab.ObjectKind: "ZU"},
				{vocab.Demolition: "Снос", vocab.DemPurpose: "жилой", vocab.ExtraFilter: "Фиктивный КН"},
				{vocab.Demolition: "Ремонт", vocab.ObjectKind: "ONS", vocab.BuildingArea: "0"},
			},
			wantCells: []string{
				"Назнач. дома под снос@0",
				"Площадь ОКС@0",
				"Дополн. фильтр@0",
				"Площадь ОКС@1",
				"Площадь ОКС@2",
				"Площадь ОКС@3",
			},
		},
		{
			name: "G14 building usage",
			def:  buildingUsage,
			rows: []rt.Row{
				{vocab.BuildingUsage: "Склад"},
				{vocab.BuildingKN: "78:1"},
				{vocab.BuildingKN: "78:1", vocab.ExtraFilter: "Фиктивный КН"},
			},
			wantCells: []string{"Кад. номер ОКС@0", "Кад. номер ОКС@1"},
		},
		{
			name: "G15 building area",
			def:  buildingArea,
			rows: []rt.Row{
				{vocab.BuildingKN: "78:1", vocab.BuildingArea: "0"},
				{vocab.BuildingKN: "", vocab.BuildingArea: ""},
				{vocab.BuildingKN: "78:2", vocab.BuildingArea: "12,5"},
			},
			wantCells: []string{"Площадь ОКС@0"},
		},
		{
			name: "G16 subsegment",
			def:  subsegment,
			rows: []rt.Row{
				{vocab.Subsegment: "ОГОРОД", vocab.ObjectKind: "OKS"},
				{vocab.Subsegment: "ОГОРОД", vocab.ObjectKind: "ZU"},
				{vocab.Subsegment: "ИЖС", vocab.ObjectKind: "OKS"},
			},
			wantCells: []string{"Вид ОН@0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := rt.Run(t, tt.def, rt.Table(t, tt.rows...), tt.opts)
			require.NoError(t, run.Err)
			assert.Equal(t, tt.wantCells, rt.Cells(run))
			if len(tt.wantCells) == 0 {
				assert.Equal(t, audit.Passed, run.Status)
			} else {
				assert.Equal(t, audit.Failed, run.Status)
			}
		})
	}
}

func TestYearCodes_Explanations(t *testing.T) {
	tbl := rt.Table(t,
		rt.Row{vocab.Year: " "},
		rt.Row{vocab.Year: "2023", vocab.LotCode: "2022-01", vocab.Lot: "2023", vocab.ObjectCode: "2023", vocab.UniqueNumber: "2023"},
	)
	run := rt.Run(t, yearCodes, tbl, nil)

	require.Len(t, run.Problems, 2)
	assert.Equal(t, "'Год' не заполнен", run.Problems[0].Explanation)
	assert.Equal(t, "Недопустимое значение '2022-01'", run.Problems[1].Explanation)
	assert.Equal(t, "G01", run.Problems[1].RuleID)
	assert.Equal(t, Category, run.Problems[1].Category)
}

func TestBuildingUsage_Explanation(t *testing.T) {
	run := rt.Run(t, buildingUsage, rt.Table(t, rt.Row{vocab.BuildingKN: "78:1"}), nil)

	require.Len(t, run.Problems, 1)
	assert.Equal(t,
		"Для пустого 'Факт. использование ОКС' ожидалось, что 'Кад. номер ОКС' = <пусто> или 'Дополн. фильтр' будет содержать 'Фиктивный КН'",
		run.Problems[0].Explanation)
}

func TestDemolition_SingleLotDoesNotExempt(t *testing.T) {
	tests := []struct {
		name   string
		row    rt.Row
		status audit.Status
	}{
		{
			name:   "ENC single lot without area",
			row:    rt.Row{vocab.Demolition: "Реконструкция", vocab.ObjectKind: "ENC", vocab.SingleLot: "Единый лот", vocab.BuildingArea: "0"},
			status: audit.Failed,
		},
		{
			name:   "ENC single lot with area",
			row:    rt.Row{vocab.Demolition: "Ремонт", vocab.ObjectKind: "ENC", vocab.SingleLot: "Единый лот", vocab.BuildingArea: "120"},
			status: audit.Passed,
		},
		{
			name:   "ONS without area",
			row:    rt.Row{vocab.Demolition: "Ремонт", vocab.ObjectKind: "ONS"},
			status: audit.Passed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := rt.Run(t, demolition, rt.Table(t, tt.row), nil)
			assert.Equal(t, tt.status, run.Status)
			if tt.status == audit.Failed {
				assert.Equal(t, []string{"Площадь ОКС@0"}, rt.Cells(run))
			}
		})
	}
}

func TestRegister(t *testing.T) {
	c := audit.NewCatalog()
	require.NoError(t, Register(c))
	assert.Equal(t, 15, c.Count())

	// registering twice collides on IDs
	var dup *audit.DuplicateRuleError
	assert.ErrorAs(t, Register(c), &dup)
}
