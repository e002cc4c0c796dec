package services

// Section identifies the logical grouping a cost line belongs to.
type Section string

const (
	SectionDesigns          Section = "designs"
	SectionStructure        Section = "structure"
	SectionMasonry          Section = "masonry"
	SectionRoofing          Section = "roofing"
	SectionFoundationsPiles Section = "foundations_piles"
	SectionFoundationsCaps  Section = "foundations_pile_caps"
	SectionComplementary    Section = "complementary"
	SectionPersonnel        Section = "personnel"
	SectionOtherAdmin       Section = "other_admin"
)

// SectionValues lists every valid section code, in display order.
var SectionValues = []string{
	string(SectionDesigns),
	string(SectionStructure),
	string(SectionMasonry),
	string(SectionRoofing),
	string(SectionFoundationsPiles),
	string(SectionFoundationsCaps),
	string(SectionComplementary),
	string(SectionPersonnel),
	string(SectionOtherAdmin),
}

// Chapter1Sections are the direct-cost sections rolled into chapter 1.
var Chapter1Sections = []Section{
	SectionDesigns,
	SectionStructure,
	SectionMasonry,
	SectionRoofing,
}

// AdminSections feed the administration/personnel chapter, which is tracked
// separately from the general total.
var AdminSections = []Section{
	SectionPersonnel,
	SectionOtherAdmin,
}

// IsValidSection reports whether code is a known section.
func IsValidSection(code string) bool {
	for _, s := range SectionValues {
		if s == code {
			return true
		}
	}
	return false
}

// AIUGroup identifies one markup-engine instantiation within a version.
type AIUGroup string

const (
	GroupChapter1        AIUGroup = "chapter1"
	GroupFoundationPiles AIUGroup = "foundations_piles"
	GroupFoundationCaps  AIUGroup = "foundations_pile_caps"
	GroupComplementary   AIUGroup = "complementary"
)

// AIUGroupValues lists the four markup groups every version carries.
var AIUGroupValues = []string{
	string(GroupChapter1),
	string(GroupFoundationPiles),
	string(GroupFoundationCaps),
	string(GroupComplementary),
}

// IsValidAIUGroup reports whether code is a known markup group.
func IsValidAIUGroup(code string) bool {
	for _, g := range AIUGroupValues {
		if g == code {
			return true
		}
	}
	return false
}

// SectionForGroup maps a chapter-2 markup group to the section whose lines
// feed its direct cost. Chapter 1 aggregates several sections and is handled
// separately.
var SectionForGroup = map[AIUGroup]Section{
	GroupFoundationPiles: SectionFoundationsPiles,
	GroupFoundationCaps:  SectionFoundationsCaps,
	GroupComplementary:   SectionComplementary,
}

// Default AIU percentages applied to newly created versions.
const (
	DefaultAdminPct  = 27.5
	DefaultProfitPct = 26.6
)

// UnitOptions lists the unit-of-measure options offered by line forms.
var UnitOptions = []string{
	"m2",
	"m3",
	"ml",
	"un",
	"kg",
	"ton",
	"global",
	"viaje",
	"dia",
	"mes",
}

// DesignConcepts enumerates the design disciplines priced per square meter of
// base area.
var DesignConcepts = []string{
	"arq",
	"estructural",
	"electrico",
	"hidrosanitario",
	"suelos",
}
