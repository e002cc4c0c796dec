package services

// VersionTotals holds the top-level derived figures of one quotation version.
type VersionTotals struct {
	Chapter1       float64
	Chapter2       float64
	Administration float64
	TotalGeneral   float64
}

// CalcVersionTotals composes the version-level totals. Chapter 2 is the
// resolved foundation total plus the complementary-items chapter total.
// The administration chapter is computed and stored but not folded into
// the general total (as-observed behavior, pending product-owner review).
func CalcVersionTotals(chapter1, foundationResolved, complementary, administration float64) VersionTotals {
	chapter2 := foundationResolved + complementary
	return VersionTotals{
		Chapter1:       chapter1,
		Chapter2:       chapter2,
		Administration: administration,
		TotalGeneral:   chapter1 + chapter2,
	}
}
