package general

import (
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules/internal/vocab"
)

var demolition = audit.RuleDef{
	ID:          "G13",
	Name:        "Снос (13.)",
	Category:    Category,
	Description: "Demolition, reconstruction and repair rows have a consistent purpose and area",
	Build:       buildDemolition,
}

func buildDemolition(b *audit.Binder) audit.Procedure {
	dem := b.Column(vocab.Demolition)
	purpose := b.Column(vocab.DemPurpose)
	area := b.Column(vocab.BuildingArea)
	kind := b.Column(vocab.ObjectKind)
	// The registry must carry the single-lot column, but it does not exempt
	// ENC rows: only ONS rows may leave the area empty.
	b.Column(vocab.SingleLot)
	extra := b.Column(vocab.ExtraFilter)
	rebuild := audit.OneOf("Реконструкция", "Ремонт")

	return func(ctx *audit.Context) error {
		for y := range ctx.Rows() {
			r := ctx.At(y)
			switch {
			case r.IsEqual(dem, "Снос"):
				r.NotEmpty(purpose)
				r.NotZeroOrEmpty(area)
				if r.IsZeroOrEmpty(area) {
					r.Contains(extra, vocab.FictiveKN)
				}

			case r.Is(dem, rebuild):
				r.Empty(purpose)
				if r.IsEqual(kind, vocab.KindONS) {
					r.ZeroOrEmpty(area)
				} else {
					r.NotZeroOrEmpty(area)
				}
			}
		}
		return nil
	}
}
