package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineDef struct {
	section     services.Section
	concept     string
	description string
	unit        string
	quantity    float64
	unitPrice   float64
	materials   float64
	equipment   float64
	labor       float64
	entries     []services.ConceptEntry
}

var seedLines = []lineDef{
	{section: services.SectionDesigns, concept: "arq", description: "Architectural design", unit: "m2", unitPrice: 5000},
	{section: services.SectionDesigns, concept: "estructural", description: "Structural design", unit: "m2", unitPrice: 3500},
	{section: services.SectionDesigns, concept: "suelos", description: "Soil study", unit: "m2", unitPrice: 1200},
	{section: services.SectionStructure, concept: "columnas", description: "Steel columns", unit: "kg", quantity: 1250, unitPrice: 8500},
	{section: services.SectionStructure, concept: "vigas", description: "Steel beams", unit: "kg", quantity: 2100, unitPrice: 7800},
	{section: services.SectionMasonry, concept: "muros", description: "Block walls", unit: "m2", quantity: 380, materials: 42000, equipment: 6500, labor: 28000},
	{section: services.SectionRoofing, concept: "cubierta", description: "Standing-seam roof panels", unit: "m2", quantity: 460, unitPrice: 95000},
	{section: services.SectionFoundationsPiles, concept: "pilotes", description: "Driven piles 30cm", unit: "un", quantity: 24, unitPrice: 1850000},
	{section: services.SectionFoundationsCaps, concept: "dados", description: "Pile caps", unit: "m3", quantity: 38, unitPrice: 1150000},
	{section: services.SectionComplementary, concept: "urbanismo", description: "Site works and paving", unit: "global", quantity: 1, unitPrice: 34000000},
	{section: services.SectionPersonnel, concept: "residente", description: "Resident engineer", unit: "mes", quantity: 6, unitPrice: 7200000},
	{section: services.SectionOtherAdmin, concept: "polizas", description: "Insurance and guarantees", unit: "global",
		entries: []services.ConceptEntry{
			{Label: "Performance bond", Value: 3800000},
			{Label: "Liability policy", Value: 2100000},
		}},
}

// Seed creates a demo quotation with one active version when the quotations
// collection is empty. Existing data is never touched.
func Seed(app *pocketbase.PocketBase) error {
	existing, err := app.FindAllRecords("quotations")
	if err != nil {
		return fmt.Errorf("seed: could not query quotations: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("seed: quotations collection: %w", err)
	}
	versionsCol, err := app.FindCollectionByNameOrId("quotation_versions")
	if err != nil {
		return fmt.Errorf("seed: quotation_versions collection: %w", err)
	}
	linesCol, err := app.FindCollectionByNameOrId("cost_lines")
	if err != nil {
		return fmt.Errorf("seed: cost_lines collection: %w", err)
	}
	groupsCol, err := app.FindCollectionByNameOrId("aiu_groups")
	if err != nil {
		return fmt.Errorf("seed: aiu_groups collection: %w", err)
	}

	quotation := core.NewRecord(quotationsCol)
	quotation.Set("name", "Bodega Industrial La Estrella")
	quotation.Set("client", "Inversiones La Estrella S.A.S.")
	quotation.Set("reference", "COT-2026-001")
	quotation.Set("start_date", "2026-03-01")
	quotation.Set("fin_date", "2026-10-31")
	if err := app.Save(quotation); err != nil {
		return fmt.Errorf("seed: could not save quotation: %w", err)
	}

	version := core.NewRecord(versionsCol)
	version.Set("quotation", quotation.Id)
	version.Set("version_number", 1)
	version.Set("active", true)
	version.Set("area_base", 450)
	version.Set("area_covered", 520)
	version.Set("change_notes", "Initial estimate")
	if err := app.Save(version); err != nil {
		return fmt.Errorf("seed: could not save version: %w", err)
	}

	for i, def := range seedLines {
		line := core.NewRecord(linesCol)
		line.Set("version", version.Id)
		line.Set("sort_order", i+1)
		line.Set("section", string(def.section))
		line.Set("concept", def.concept)
		line.Set("description", def.description)
		line.Set("unit", def.unit)
		line.Set("quantity", def.quantity)
		line.Set("unit_price", def.unitPrice)
		line.Set("price_materials", def.materials)
		line.Set("price_equipment", def.equipment)
		line.Set("price_labor", def.labor)
		line.Set("multi_price", def.materials != 0 || def.equipment != 0 || def.labor != 0)
		if len(def.entries) > 0 {
			line.Set("entries", def.entries)
		}
		if err := app.Save(line); err != nil {
			return fmt.Errorf("seed: could not save line %q: %w", def.concept, err)
		}
	}

	for _, group := range services.AIUGroupValues {
		rec := core.NewRecord(groupsCol)
		rec.Set("version", version.Id)
		rec.Set("group", group)
		rec.Set("admin_pct", services.DefaultAdminPct)
		rec.Set("profit_pct", services.DefaultProfitPct)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not save AIU group %q: %w", group, err)
		}
	}

	if err := services.RecomputeVersion(app, version.Id); err != nil {
		return fmt.Errorf("seed: recompute failed: %w", err)
	}

	fmt.Printf("Seeded quotation %q with version 1\n", quotation.GetString("name"))
	return nil
}
