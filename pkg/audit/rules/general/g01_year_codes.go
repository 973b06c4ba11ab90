package general

import (
	"strings"

	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var yearCodes = audit.RuleDef{
	ID:          "G01",
	Name:        "Год, коды, лоты (1.)",
	Category:    Category,
	Description: "Lot code, lot, object code and unique number contain the row year",
	Build:       buildYearCodes,
}

func buildYearCodes(b *audit.Binder) audit.Procedure {
	year := b.Column(vocab.Year)
	codes := b.Columns(vocab.LotCode, vocab.Lot, vocab.ObjectCode, vocab.UniqueNumber)

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			yearText := strings.TrimSpace(r.Text(year))
			if yearText == "" {
				r.Mark(year, "'Год' не заполнен")
				continue
			}
			for _, c := range codes {
				r.That(c, func(s string) bool { return strings.Contains(s, yearText) })
			}
		}
		return nil
	}
}
