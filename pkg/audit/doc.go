// Package audit runs business rules over a table.Table and collects the
// cells that violate them.
//
// # Rules
//
// A rule is declared as a RuleDef and registered into a Catalog:
//
//	c := audit.NewCatalog()
//	c.MustRegister(audit.RuleDef{
//		ID:       "G05",
//		Name:     "Фактическое использование ЗУ (5.)",
//		Category: "Общие",
//		Build: func(b *audit.Binder) audit.Procedure {
//			fact := b.Column("Факт. использование ЗУ")
//			return func(ctx *audit.Context) error {
//				for range ctx.Rows() {
//					ctx.NotEmpty(fact)
//				}
//				return nil
//			}
//		},
//	})
//
// Build runs when the catalog is bound to a table. Every column a rule needs
// is resolved there, so a missing column fails Catalog.Bind before any row
// is read.
//
// # Assertions
//
// Inside a procedure the Context exposes two families of calls:
//
//   - probes (IsEqual, IsEmpty, IsZeroOrEmpty, IsContains, Is, ...) return a
//     bool and never record anything
//   - assertions (Equal, Empty, NotZeroOrEmpty, Contains, That, Mark, ...)
//     record exactly one Problem when they fail
//
// ctx.At(row) targets an explicit row. The methods on Context itself target
// the cursor row, which ctx.Rows() advances.
//
// # Execution
//
// Each Rule is executed once through a RuleRun, which moves from NotRun to
// Running and ends Passed, Failed or Errored. Errors returned by a procedure
// and panics inside it are captured on the run; the Engine goes on with the
// next rule. Aggregate groups the problems of finished runs per row.
package audit
