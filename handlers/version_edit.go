package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// HandleVersionUpdate edits the mutable fields of a version: areas, change
// notes and the active flag. Deactivating the active version without promoting
// a replacement is rejected, since a quotation with versions must always keep
// exactly one active. Area changes trigger a full recompute because design
// line subtotals depend on area_base.
func HandleVersionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		version, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			log.Printf("version_edit: version %s not found: %v", versionID, err)
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if version.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}

		errors := make(map[string]string)
		needsRecompute := false

		if raw := e.Request.FormValue("area_base"); raw != "" {
			areaBase, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				errors["area_base"] = "Base area must be a number"
			} else {
				for field, msg := range services.ValidateAreaBase(areaBase) {
					errors[field] = msg
				}
				if len(errors) == 0 {
					version.Set("area_base", areaBase)
					needsRecompute = true
				}
			}
		}
		if raw := e.Request.FormValue("area_covered"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
				version.Set("area_covered", v)
			} else {
				errors["area_covered"] = "Covered area must be zero or positive"
			}
		}
		if raw := e.Request.FormValue("area_mezzanine"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
				version.Set("area_mezzanine", v)
			} else {
				errors["area_mezzanine"] = "Mezzanine area must be zero or positive"
			}
		}
		if e.Request.Form.Has("change_notes") {
			version.Set("change_notes", strings.TrimSpace(e.Request.FormValue("change_notes")))
		}

		if raw := e.Request.FormValue("active"); raw != "" {
			wantActive, err := strconv.ParseBool(raw)
			if err != nil {
				errors["active"] = "Active must be true or false"
			} else if !wantActive && version.GetBool("active") {
				return jsonError(e, http.StatusConflict,
					"Cannot deactivate the active version directly. Activate another version instead.", nil)
			} else if wantActive && !version.GetBool("active") {
				return jsonError(e, http.StatusConflict,
					"Use the activate endpoint to promote a version.", nil)
			}
		}

		if len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below", errors)
		}

		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(version); err != nil {
				return err
			}
			if needsRecompute {
				return services.RecomputeVersion(tx, versionID)
			}
			return nil
		})
		if err != nil {
			log.Printf("version_edit: could not save version %s: %v", versionID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		updated, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":            updated.Id,
			"area_base":     updated.GetFloat("area_base"),
			"total_general": updated.GetFloat("total_general"),
		})
	}
}
