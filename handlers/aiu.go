package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// aiuInputFields are the user-editable markup inputs. Derived fields
// (direct_cost, suggested values, totals) are owned by the recompute pass and
// cannot be patched.
var aiuInputFields = []string{
	"commission", "contingency", "logistics",
	"admin_pct", "profit_pct", "admin_final", "profit_final",
}

// HandleAIUGroupPatch updates the editable inputs of one markup group and
// recomputes the version.
func HandleAIUGroupPatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")

		group, err := app.FindRecordById("aiu_groups", groupID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Markup group not found", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}

		errors := make(map[string]string)
		for _, field := range aiuInputFields {
			if !e.Request.Form.Has(field) {
				continue
			}
			value, err := strconv.ParseFloat(e.Request.FormValue(field), 64)
			if err != nil {
				errors[field] = "Must be a number"
				continue
			}
			if value < 0 {
				errors[field] = "Must be zero or greater"
				continue
			}
			group.Set(field, value)
		}
		if len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below", errors)
		}

		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(group); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, group.GetString("version"))
		})
		if err != nil {
			log.Printf("aiu: could not save group %s: %v", groupID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		saved, err := app.FindRecordById("aiu_groups", groupID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		return e.JSON(http.StatusOK, groupToMap(saved))
	}
}
