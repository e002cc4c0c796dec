// Package services provides the cost roll-up, markup and cash-flow
// calculations for quotation versions.
package services

// CalcLineSubtotal computes the subtotal of a single-price cost line.
func CalcLineSubtotal(qty, unitPrice float64) float64 {
	return qty * unitPrice
}

// CalcMultiPriceSubtotal computes the subtotal of a line priced by
// materials, equipment and labor components.
func CalcMultiPriceSubtotal(qty, materials, equipment, labor float64) float64 {
	return qty*materials + qty*equipment + qty*labor
}

// CalcDesignSubtotal computes a design line's subtotal. Design lines are not
// quantity-based: the version's base floor area multiplies the per-m2 price.
func CalcDesignSubtotal(unitPrice, areaBase float64) float64 {
	return unitPrice * areaBase
}

// ConceptEntry is one named monetary value inside an admin-concept line.
// The set of labels is free-form per category (insurance, payroll, taxes...).
type ConceptEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CalcConceptSubtotal sums the values of an admin-concept line's entries.
func CalcConceptSubtotal(entries []ConceptEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Value
	}
	return sum
}

// ChapterTotal sums the subtotals of the lines belonging to one chapter
// section. An empty member set yields 0.
func ChapterTotal(subtotals []float64) float64 {
	var sum float64
	for _, s := range subtotals {
		sum += s
	}
	return sum
}
