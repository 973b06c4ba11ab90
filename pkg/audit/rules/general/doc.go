// Package general provides the registry rules of the "Общие" category.
//
// These rules apply to every row regardless of the object kind:
//
//   - G01: year, lot and object codes agree
//   - G02: "other property" rows carry a consistent source
//   - G03, G04: tender price and excess coefficient imply a tender source
//   - G05 to G07: mandatory land usage, land share and zoning columns
//   - G09, G10: source 1 and source 2 branches
//   - G11, G12: documents and screenshots unless sourced from a gov service
//   - G13 to G16: demolition, building usage, building area and subsegment
package general
