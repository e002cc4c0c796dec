package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// lineToMap flattens a cost line record for JSON responses.
func lineToMap(line *core.Record) map[string]any {
	m := map[string]any{
		"id":          line.Id,
		"sort_order":  line.GetInt("sort_order"),
		"section":     line.GetString("section"),
		"concept":     line.GetString("concept"),
		"description": line.GetString("description"),
		"unit":        line.GetString("unit"),
		"quantity":    line.GetFloat("quantity"),
		"unit_price":  line.GetFloat("unit_price"),
		"multi_price": line.GetBool("multi_price"),
		"subtotal":    line.GetFloat("subtotal"),
	}
	if line.GetBool("multi_price") {
		m["price_materials"] = line.GetFloat("price_materials")
		m["price_equipment"] = line.GetFloat("price_equipment")
		m["price_labor"] = line.GetFloat("price_labor")
	}
	if entries := services.DecodeConceptEntries(line.GetString("entries")); len(entries) > 0 {
		m["entries"] = entries
	}
	return m
}

func groupToMap(group *core.Record) map[string]any {
	return map[string]any{
		"id":               group.Id,
		"group":            group.GetString("group"),
		"direct_cost":      group.GetFloat("direct_cost"),
		"commission":       group.GetFloat("commission"),
		"contingency":      group.GetFloat("contingency"),
		"logistics":        group.GetFloat("logistics"),
		"admin_pct":        group.GetFloat("admin_pct"),
		"profit_pct":       group.GetFloat("profit_pct"),
		"admin_suggested":  group.GetFloat("admin_suggested"),
		"profit_suggested": group.GetFloat("profit_suggested"),
		"admin_final":      group.GetFloat("admin_final"),
		"profit_final":     group.GetFloat("profit_final"),
		"total_markup":     group.GetFloat("total_markup"),
		"chapter_total":    group.GetFloat("chapter_total"),
	}
}

// HandleVersionList returns all versions of a quotation, newest number first.
func HandleVersionList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")

		if _, err := app.FindRecordById("quotations", quotationID); err != nil {
			return jsonError(e, http.StatusNotFound, "Quotation not found", nil)
		}

		versions, err := app.FindRecordsByFilter(
			"quotation_versions",
			"quotation = {:quotationId}",
			"-version_number",
			0,
			0,
			map[string]any{"quotationId": quotationID},
		)
		if err != nil {
			log.Printf("version_view: could not list versions: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		items := make([]map[string]any, 0, len(versions))
		for _, v := range versions {
			items = append(items, map[string]any{
				"id":             v.Id,
				"version_number": v.GetInt("version_number"),
				"active":         v.GetBool("active"),
				"area_base":      v.GetFloat("area_base"),
				"change_notes":   v.GetString("change_notes"),
				"created_by":     v.GetString("created_by"),
				"total_general":  v.GetFloat("total_general"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"versions": items})
	}
}

// HandleVersionView returns the full breakdown of a version: lines grouped by
// section, the four AIU groups and all stored totals.
func HandleVersionView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		version, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if version.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		lines, err := app.FindRecordsByFilter(
			"cost_lines",
			"version = {:versionId}",
			"sort_order",
			0,
			0,
			map[string]any{"versionId": versionID},
		)
		if err != nil {
			log.Printf("version_view: could not load lines: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		bySection := make(map[string][]map[string]any)
		for _, line := range lines {
			section := line.GetString("section")
			bySection[section] = append(bySection[section], lineToMap(line))
		}

		groups, err := app.FindRecordsByFilter(
			"aiu_groups",
			"version = {:versionId}",
			"group",
			0,
			0,
			map[string]any{"versionId": versionID},
		)
		if err != nil {
			log.Printf("version_view: could not load AIU groups: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		groupItems := make([]map[string]any, 0, len(groups))
		for _, g := range groups {
			groupItems = append(groupItems, groupToMap(g))
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                version.Id,
			"version_number":    version.GetInt("version_number"),
			"active":            version.GetBool("active"),
			"area_base":         version.GetFloat("area_base"),
			"area_covered":      version.GetFloat("area_covered"),
			"area_mezzanine":    version.GetFloat("area_mezzanine"),
			"foundation_option": version.GetString("foundation_option"),
			"change_notes":      version.GetString("change_notes"),
			"lines":             bySection,
			"aiu_groups":        groupItems,
			"totals": map[string]any{
				"total_chapter1":             version.GetFloat("total_chapter1"),
				"total_foundation_piles":     version.GetFloat("total_foundation_piles"),
				"total_foundation_pile_caps": version.GetFloat("total_foundation_pile_caps"),
				"total_foundation":           version.GetFloat("total_foundation"),
				"total_chapter2":             version.GetFloat("total_chapter2"),
				"total_administration":       version.GetFloat("total_administration"),
				"total_general":              version.GetFloat("total_general"),
			},
		})
	}
}

// HandleVersionDelete removes a version; its lines, AIU groups and cashflow
// entries cascade. Deleting the active version is allowed only when it is the
// last version of the quotation.
func HandleVersionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		version, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if version.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		if version.GetBool("active") {
			siblings, _ := app.FindRecordsByFilter(
				"quotation_versions",
				"quotation = {:quotationId} && id != {:versionId}",
				"",
				1,
				0,
				map[string]any{"quotationId": quotationID, "versionId": versionID},
			)
			if len(siblings) > 0 {
				return jsonError(e, http.StatusConflict,
					"Cannot delete the active version. Activate another version first.", nil)
			}
		}

		if err := app.Delete(version); err != nil {
			log.Printf("version_view: failed to delete version %s: %v", versionID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": versionID})
	}
}
