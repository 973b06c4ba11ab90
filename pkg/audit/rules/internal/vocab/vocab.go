// Package vocab holds the column names and value sets shared by the
// built-in registry rules.
package vocab

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/table"
)

// Registry column names.
const (
	Year          = "Год"
	LotCode       = "Код лота"
	Lot           = "Лот"
	ObjectCode    = "Код ОН"
	UniqueNumber  = "Уник №"
	Source1       = "Источник 1"
	Source2       = "Источник 2"
	Source3       = "Источник 3"
	Documents     = "Докум."
	Screens       = "Кол-во основных скринов"
	Deal          = "Вид сделки"
	Link          = "Ссылка"
	Portal        = "Портал"
	Coefficient   = "Коэф. превышения"
	LotPrice      = "Нач. общ. стоим. лота"
	OtherProperty = "Прочее имущество, руб."
	LandUsage     = "Факт. использование ЗУ"
	LandShare     = "Доля ЗУ"
	ObjectKind    = "Вид ОН"
	Zone          = "Зона ПЗЗ"
	SERCode       = "Код СЭР"
	LandRight     = "Право ЗУ"
	LandNote      = "Примечание (ЗУ)"
	Demolition    = "Снос"
	DemPurpose    = "Назнач. дома под снос"
	BuildingArea  = "Площадь ОКС"
	BuildingUsage = "Факт. использование ОКС"
	BuildingKN    = "Кад. номер ОКС"
	ExtraFilter   = "Дополн. фильтр"
	SingleLot     = "Единый лот"
	Subsegment    = "Подсегмент"

	LandSellPrice     = "Цена продажи ЗУ"
	LandUnitPrice     = "Уд. цена на  1 кв.м ЗУ"
	LotArea           = "Площадь лота"
	LandArea          = "Площадь ЗУ"
	LandShareArea     = "Площадь доли ЗУ"
	LotSellPrice      = "Цена продажи ЛОТ"
	BuildingLotPrice  = "Цена продажи ОКС (лот)"
	BuildingLandPrice = "Цена продажи ОКС (ЗУ)"
	BuildingUnitPrice = "Уд. цена на 1 кв. м ОКС"
	BuildingSqmPrice  = "Цена 1 кв.м ОКС"
	PriceSeparate     = "Стоимость ОКС указана отдельно"
)

// Object kinds in the "Вид ОН" column.
const (
	KindLand    = "ZU"
	KindRent    = "Rnt"
	KindENC     = "ENC"
	KindOKS     = "OKS"
	KindONS     = "ONS"
	Archive     = "АРХИВ"
	FictiveKN   = "Фиктивный КН"
	AgencyGBUKO = "ГБУ КО"
	Rosreestr   = "Росреестр"
	Market      = "Рынок"
	TenderLabel = "Торги "
)

// Option keys for the vocabulary sets.
const (
	OptWebsites    = "websites"
	OptGovServices = "gov_services"
)

// DefaultWebsites are the trading platforms accepted in "Источник 3".
var DefaultWebsites = []string{
	"РАД", "Торги России", "ДОМ.РФ", "Фонд Имущества", "Балтийская электронная площадка", "другое",
}

// DefaultGovServices are the "Источник 2" values that need no documents or screens.
var DefaultGovServices = []string{
	"Петербургская недвижимость", "Росреестр", "ГУИОН",
}

// Sets holds the value sets a rule checks against.
type Sets struct {
	Website    func(string) bool
	GovService func(string) bool
}

// FromOptions builds the sets, taking overrides from rule options.
func FromOptions(opts map[string]any) Sets {
	return Sets{
		Website:    audit.OneOf(audit.GetStringSliceOption(opts, OptWebsites, DefaultWebsites)...),
		GovService: audit.OneOf(audit.GetStringSliceOption(opts, OptGovServices, DefaultGovServices)...),
	}
}

// Sources are the columns describing where a listing came from.
type Sources struct {
	S1, S2, S3   *table.Column
	Doc, Screens *table.Column
}

// BindSources resolves the source columns.
func BindSources(b *audit.Binder) Sources {
	return Sources{
		S1:      b.Column(Source1),
		S2:      b.Column(Source2),
		S3:      b.Column(Source3),
		Doc:     b.Column(Documents),
		Screens: b.Column(Screens),
	}
}

// Filter selects the rows a segment rule applies to: the kind matches one
// of kinds, the row is not archived and it is not part of a single lot.
type Filter struct {
	kind, extra, single *table.Column
	kinds               []string
}

// BindFilter resolves the filter columns.
func BindFilter(b *audit.Binder, kinds ...string) Filter {
	return Filter{
		kind:   b.Column(ObjectKind),
		extra:  b.Column(ExtraFilter),
		single: b.Column(SingleLot),
		kinds:  kinds,
	}
}

// Pass reports whether the row is in scope. It only probes.
func (f Filter) Pass(r audit.Row) bool {
	matched := false
	for _, k := range f.kinds {
		if r.IsEqual(f.kind, k) {
			matched = true
			break
		}
	}
	return matched && r.IsNotEqual(f.extra, Archive) && r.IsEmpty(f.single)
}

// Columns lists every column read by the built-in rules, in registry order.
var Columns = []string{
	Year, LotCode, Lot, ObjectCode, UniqueNumber,
	ObjectKind, ExtraFilter, SingleLot, Subsegment,
	Source1, Source2, Source3, Documents, Screens, Deal, Link, Portal,
	LotPrice, Coefficient, OtherProperty,
	LandUsage, LandShare, LandRight, LandNote, Zone, SERCode,
	Demolition, DemPurpose,
	LandSellPrice, LandUnitPrice, LotArea, LandArea, LandShareArea, LotSellPrice,
	BuildingLotPrice, BuildingLandPrice, BuildingUnitPrice, BuildingSqmPrice, PriceSeparate,
	BuildingUsage, BuildingKN, BuildingArea,
}
