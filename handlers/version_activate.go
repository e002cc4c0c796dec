package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// findActiveVersion returns the currently-active version of a quotation, or
// nil when none is active.
func findActiveVersion(app core.App, quotationID string) *core.Record {
	active, err := app.FindRecordsByFilter(
		"quotation_versions",
		"quotation = {:quotationId} && active = true",
		"",
		1,
		0,
		map[string]any{"quotationId": quotationID},
	)
	if err != nil || len(active) == 0 {
		return nil
	}
	return active[0]
}

// HandleVersionActivate promotes a version to active. The currently-active
// version of the same quotation is demoted in the same transaction, so the
// at-most-one-active invariant holds at every commit point.
func HandleVersionActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		target, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			log.Printf("version_activate: version %s not found: %v", versionID, err)
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if target.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		if target.GetBool("active") {
			return e.JSON(http.StatusOK, map[string]any{
				"id":     target.Id,
				"active": true,
			})
		}

		err = app.RunInTransaction(func(tx core.App) error {
			if current := findActiveVersion(tx, quotationID); current != nil {
				current.Set("active", false)
				if err := tx.Save(current); err != nil {
					return err
				}
			}
			target.Set("active", true)
			return tx.Save(target)
		})
		if err != nil {
			log.Printf("version_activate: could not activate version %s: %v", versionID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			SetToast(e, "success", "Version activated")
			e.Response.Header().Set("HX-Redirect", "/dashboard")
			return e.String(http.StatusOK, "")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":             target.Id,
			"version_number": target.GetInt("version_number"),
			"active":         true,
		})
	}
}
