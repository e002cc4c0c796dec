package services

// ExportRow represents a single cost line in a version export.
type ExportRow struct {
	Index       string // "1", "2", ... within its section
	Section     Section
	Concept     string
	Description string
	Unit        string
	Qty         float64
	UnitPrice   float64
	Subtotal    float64
}

// AIUBlock holds one markup group's figures for export.
type AIUBlock struct {
	Group           AIUGroup
	Label           string
	DirectCost      float64
	Commission      float64
	Contingency     float64
	Logistics       float64
	AdminSuggested  float64
	AdminFinal      float64
	ProfitSuggested float64
	ProfitFinal     float64
	TotalMarkup     float64
	ChapterTotal    float64
}

// ExportData holds everything needed to render a version export.
type ExportData struct {
	QuotationName      string
	Client             string
	Reference          string
	VersionLabel       string
	CreatedDate        string
	AreaBase           float64
	Rows               []ExportRow
	AIUBlocks          []AIUBlock
	FoundationOption   string
	FoundationResolved float64
	Totals             VersionTotals
}

// SectionLabels maps section codes to export headings.
var SectionLabels = map[Section]string{
	SectionDesigns:          "Designs",
	SectionStructure:        "Structure",
	SectionMasonry:          "Masonry",
	SectionRoofing:          "Roofing",
	SectionFoundationsPiles: "Foundations — Piles",
	SectionFoundationsCaps:  "Foundations — Pile Caps",
	SectionComplementary:    "Complementary Items",
	SectionPersonnel:        "Personnel",
	SectionOtherAdmin:       "Other Administration",
}

// AIUGroupLabels maps markup groups to export headings.
var AIUGroupLabels = map[AIUGroup]string{
	GroupChapter1:        "AIU — Chapter 1",
	GroupFoundationPiles: "AIU — Foundations (Piles)",
	GroupFoundationCaps:  "AIU — Foundations (Pile Caps)",
	GroupComplementary:   "AIU — Complementary",
}
