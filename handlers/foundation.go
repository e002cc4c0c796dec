package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// HandleFoundationSelect sets or clears the foundation option of a version.
// An empty option returns the version to the unselected state, where the
// pricier alternative counts toward the total.
func HandleFoundationSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
		option := e.Request.FormValue("foundation_option")
		if !services.IsValidFoundationOption(option) {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below",
				map[string]string{"foundation_option": "Unknown foundation option"})
		}

		version.Set("foundation_option", option)
		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(version); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("foundation: could not save option for %s: %v", versionID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		updated, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                updated.Id,
			"foundation_option": updated.GetString("foundation_option"),
			"total_foundation":  updated.GetFloat("total_foundation"),
			"total_general":     updated.GetFloat("total_general"),
		})
	}
}
