package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// nextVersionNumber returns max(version_number)+1 for a quotation. Numbers
// are assigned once, here, and never change afterwards.
func nextVersionNumber(app core.App, quotationID string) int {
	existing, err := app.FindRecordsByFilter(
		"quotation_versions",
		"quotation = {:quotationId}",
		"-version_number",
		1,
		0,
		map[string]any{"quotationId": quotationID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("version_number") + 1
}

// createDefaultAIUGroups creates the four markup group records a version
// always carries, at the default percentages.
func createDefaultAIUGroups(tx core.App, versionID string) error {
	col, err := tx.FindCollectionByNameOrId("aiu_groups")
	if err != nil {
		return err
	}
	for _, group := range services.AIUGroupValues {
		rec := core.NewRecord(col)
		rec.Set("version", versionID)
		rec.Set("group", group)
		rec.Set("admin_pct", services.DefaultAdminPct)
		rec.Set("profit_pct", services.DefaultProfitPct)
		if err := tx.Save(rec); err != nil {
			return err
		}
	}
	return nil
}

// HandleVersionCopy creates a new version of a quotation by deep-copying an
// existing one: cost lines and AIU inputs are duplicated, the active flag is
// cleared and creation metadata is reset. The copy gets the next sequential
// version number.
func HandleVersionCopy(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		sourceID := e.Request.PathValue("versionId")

		source, err := app.FindRecordById("quotation_versions", sourceID)
		if err != nil {
			log.Printf("version_create: source version %s not found: %v", sourceID, err)
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if source.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}
		changeNotes := strings.TrimSpace(e.Request.FormValue("change_notes"))
		createdBy := strings.TrimSpace(e.Request.FormValue("created_by"))

		var newVersionID string
		err = app.RunInTransaction(func(tx core.App) error {
			versionsCol, err := tx.FindCollectionByNameOrId("quotation_versions")
			if err != nil {
				return err
			}

			newVersion := core.NewRecord(versionsCol)
			newVersion.Set("quotation", quotationID)
			newVersion.Set("version_number", nextVersionNumber(tx, quotationID))
			newVersion.Set("active", false)
			newVersion.Set("area_base", source.GetFloat("area_base"))
			newVersion.Set("area_covered", source.GetFloat("area_covered"))
			newVersion.Set("area_mezzanine", source.GetFloat("area_mezzanine"))
			newVersion.Set("foundation_option", source.GetString("foundation_option"))
			newVersion.Set("change_notes", changeNotes)
			newVersion.Set("created_by", createdBy)
			if err := tx.Save(newVersion); err != nil {
				return err
			}
			newVersionID = newVersion.Id

			linesCol, err := tx.FindCollectionByNameOrId("cost_lines")
			if err != nil {
				return err
			}
			lines, err := tx.FindRecordsByFilter(
				"cost_lines",
				"version = {:versionId}",
				"sort_order",
				0,
				0,
				map[string]any{"versionId": sourceID},
			)
			if err != nil {
				return err
			}
			for _, line := range lines {
				dup := core.NewRecord(linesCol)
				for _, field := range []string{
					"sort_order", "section", "concept", "description", "unit",
					"quantity", "unit_price", "price_materials", "price_equipment",
					"price_labor", "multi_price", "entries", "subtotal",
				} {
					dup.Set(field, line.Get(field))
				}
				dup.Set("version", newVersionID)
				if err := tx.Save(dup); err != nil {
					return err
				}
			}

			groupsCol, err := tx.FindCollectionByNameOrId("aiu_groups")
			if err != nil {
				return err
			}
			groups, err := tx.FindRecordsByFilter(
				"aiu_groups",
				"version = {:versionId}",
				"",
				0,
				0,
				map[string]any{"versionId": sourceID},
			)
			if err != nil {
				return err
			}
			for _, group := range groups {
				dup := core.NewRecord(groupsCol)
				for _, field := range []string{
					"group", "commission", "contingency", "logistics",
					"admin_pct", "profit_pct", "admin_final", "profit_final",
				} {
					dup.Set(field, group.Get(field))
				}
				dup.Set("version", newVersionID)
				if err := tx.Save(dup); err != nil {
					return err
				}
			}

			return services.RecomputeVersion(tx, newVersionID)
		})
		if err != nil {
			log.Printf("version_create: could not copy version %s: %v", sourceID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		created, err := app.FindRecordById("quotation_versions", newVersionID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":             created.Id,
			"version_number": created.GetInt("version_number"),
			"active":         created.GetBool("active"),
		})
	}
}
