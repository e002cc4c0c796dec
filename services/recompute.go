package services

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/pocketbase/pocketbase/core"
)

// RecomputeVersion runs the full derived-value pass for one quotation
// version: line subtotals, section sums, the four AIU groups, the foundation
// resolution and the version totals. The pass is synchronous, strictly
// top-down (no component reads a value derived above it) and persisted in a
// single transaction, so a failed write leaves every stored value as it was.
func RecomputeVersion(app core.App, versionID string) error {
	return app.RunInTransaction(func(tx core.App) error {
		version, err := tx.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return fmt.Errorf("recompute: version %s not found: %w", versionID, err)
		}
		areaBase := version.GetFloat("area_base")

		lines, err := tx.FindRecordsByFilter(
			"cost_lines",
			"version = {:versionId}",
			"sort_order",
			0,
			0,
			map[string]any{"versionId": versionID},
		)
		if err != nil {
			return fmt.Errorf("recompute: could not load lines: %w", err)
		}

		// 1. Line subtotals.
		sectionSums := make(map[Section]float64)
		for _, line := range lines {
			section := Section(line.GetString("section"))
			subtotal := lineSubtotal(line, section, areaBase)

			if line.GetFloat("subtotal") != subtotal {
				line.Set("subtotal", subtotal)
				if err := tx.Save(line); err != nil {
					return fmt.Errorf("recompute: could not save line %s: %w", line.Id, err)
				}
			}
			sectionSums[section] += subtotal
		}

		// 2. Chapter direct costs.
		var chapter1Direct float64
		for _, s := range Chapter1Sections {
			chapter1Direct += sectionSums[s]
		}
		var administration float64
		for _, s := range AdminSections {
			administration += sectionSums[s]
		}

		directByGroup := map[AIUGroup]float64{GroupChapter1: chapter1Direct}
		for group, section := range SectionForGroup {
			directByGroup[group] = sectionSums[section]
		}

		// 3. AIU groups.
		groupRecords, err := tx.FindRecordsByFilter(
			"aiu_groups",
			"version = {:versionId}",
			"",
			0,
			0,
			map[string]any{"versionId": versionID},
		)
		if err != nil {
			return fmt.Errorf("recompute: could not load AIU groups: %w", err)
		}

		chapterTotals := make(map[AIUGroup]float64, len(AIUGroupValues))
		for group, direct := range directByGroup {
			// A version without a stored group record still resolves: the
			// chapter total is then the bare direct cost.
			chapterTotals[group] = direct
		}

		for _, rec := range groupRecords {
			group := AIUGroup(rec.GetString("group"))
			direct, ok := directByGroup[group]
			if !ok {
				continue
			}

			result := ComputeAIU(AIUInputs{
				DirectCost:  direct,
				Commission:  rec.GetFloat("commission"),
				Contingency: rec.GetFloat("contingency"),
				Logistics:   rec.GetFloat("logistics"),
				AdminPct:    rec.GetFloat("admin_pct"),
				ProfitPct:   rec.GetFloat("profit_pct"),
				AdminFinal:  rec.GetFloat("admin_final"),
				ProfitFinal: rec.GetFloat("profit_final"),
			})

			rec.Set("direct_cost", direct)
			rec.Set("admin_suggested", result.AdminSuggested)
			rec.Set("profit_suggested", result.ProfitSuggested)
			rec.Set("total_markup", result.TotalMarkup)
			rec.Set("chapter_total", result.ChapterTotal)
			if err := tx.Save(rec); err != nil {
				return fmt.Errorf("recompute: could not save AIU group %s: %w", group, err)
			}

			chapterTotals[group] = result.ChapterTotal
		}

		// 4. Foundation resolution.
		option := FoundationOption(version.GetString("foundation_option"))
		foundationResolved := ResolveFoundation(
			chapterTotals[GroupFoundationPiles],
			chapterTotals[GroupFoundationCaps],
			option,
		)

		// 5. Version totals.
		totals := CalcVersionTotals(
			chapterTotals[GroupChapter1],
			foundationResolved,
			chapterTotals[GroupComplementary],
			administration,
		)

		version.Set("total_chapter1", totals.Chapter1)
		version.Set("total_chapter2", totals.Chapter2)
		version.Set("total_administration", totals.Administration)
		version.Set("total_general", totals.TotalGeneral)
		version.Set("total_foundation_piles", chapterTotals[GroupFoundationPiles])
		version.Set("total_foundation_pile_caps", chapterTotals[GroupFoundationCaps])
		version.Set("total_foundation", foundationResolved)

		if err := tx.Save(version); err != nil {
			return fmt.Errorf("recompute: could not save version totals: %w", err)
		}
		return nil
	})
}

// lineSubtotal dispatches the subtotal rule for one cost line.
func lineSubtotal(line *core.Record, section Section, areaBase float64) float64 {
	if section == SectionDesigns {
		return CalcDesignSubtotal(line.GetFloat("unit_price"), areaBase)
	}

	if entries := DecodeConceptEntries(line.GetString("entries")); len(entries) > 0 {
		return CalcConceptSubtotal(entries)
	}

	if line.GetBool("multi_price") {
		return CalcMultiPriceSubtotal(
			line.GetFloat("quantity"),
			line.GetFloat("price_materials"),
			line.GetFloat("price_equipment"),
			line.GetFloat("price_labor"),
		)
	}

	return CalcLineSubtotal(line.GetFloat("quantity"), line.GetFloat("unit_price"))
}

// DecodeConceptEntries parses the JSON entries field of an admin-concept
// line. Malformed or empty payloads yield nil.
func DecodeConceptEntries(raw string) []ConceptEntry {
	if raw == "" || raw == "null" {
		return nil
	}
	var entries []ConceptEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}
