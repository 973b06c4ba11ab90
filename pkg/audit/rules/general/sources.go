package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

const (
	dealSale     = "Сделка"
	databaseSrc  = "База данных"
	disputeSrc   = "Комиссия/Суд по оспариванию КС"
	noLink       = "---"
	rosreestrURL = "rosreestr.gov.ru"
)

// tenderSource checks a row whose listing comes from a tender platform.
func tenderSource(r audit.Row, s vocab.Sources, sets vocab.Sets) {
	r.Equal(s.S2, vocab.AgencyGBUKO)
	r.That(s.S3, sets.Website)
	r.NotZeroOrEmpty(s.Doc)
	r.NotZeroOrEmpty(s.Screens)
}

// directSale matches land notes describing a sale outside tenders.
func directSale(s string) bool {
	return audit.ContainsFold(s, "продажа без торгов") || audit.ContainsFold(s, "прямая продажа")
}
