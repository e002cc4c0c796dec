package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// HandleCopySuggestedToFinal copies the suggested admin and profit values into
// the final fields. With a "group" form value it touches one AIU group,
// without it all four. A recompute follows so markups pick up the new finals.
func HandleCopySuggestedToFinal(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}
		group := e.Request.FormValue("group")
		if group != "" && !services.IsValidAIUGroup(group) {
			return jsonError(e, http.StatusBadRequest, "Unknown markup group", nil)
		}

		filter := "version = {:versionId}"
		params := map[string]any{"versionId": versionID}
		if group != "" {
			filter += " && group = {:group}"
			params["group"] = group
		}

		err = app.RunInTransaction(func(tx core.App) error {
			groups, err := tx.FindRecordsByFilter("aiu_groups", filter, "", 0, 0, params)
			if err != nil {
				return err
			}
			for _, g := range groups {
				g.Set("admin_final", g.GetFloat("admin_suggested"))
				g.Set("profit_final", g.GetFloat("profit_suggested"))
				if err := tx.Save(g); err != nil {
					return err
				}
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("copy_finals: could not copy suggested values: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		updated, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":            updated.Id,
			"total_general": updated.GetFloat("total_general"),
		})
	}
}
