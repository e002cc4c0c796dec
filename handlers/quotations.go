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

// HandleQuotationList returns all quotations with their version counts.
func HandleQuotationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotations, err := app.FindAllRecords("quotations")
		if err != nil {
			log.Printf("quotations: could not list quotations: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		items := make([]map[string]any, 0, len(quotations))
		for _, q := range quotations {
			versions, _ := app.FindRecordsByFilter(
				"quotation_versions",
				"quotation = {:quotationId}",
				"",
				0,
				0,
				map[string]any{"quotationId": q.Id},
			)
			items = append(items, map[string]any{
				"id":            q.Id,
				"name":          q.GetString("name"),
				"client":        q.GetString("client"),
				"reference":     q.GetString("reference"),
				"start_date":    q.GetString("start_date"),
				"fin_date":      q.GetString("fin_date"),
				"version_count": len(versions),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"quotations": items})
	}
}

// HandleQuotationCreate creates a quotation together with its initial version
// (number 1, inactive) and the four default AIU groups.
func HandleQuotationCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("quotations: could not parse form: %v", err)
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		client := strings.TrimSpace(e.Request.FormValue("client"))
		reference := strings.TrimSpace(e.Request.FormValue("reference"))
		startDate := strings.TrimSpace(e.Request.FormValue("start_date"))
		finDate := strings.TrimSpace(e.Request.FormValue("fin_date"))
		areaBase, _ := strconv.ParseFloat(e.Request.FormValue("area_base"), 64)

		errors := make(map[string]string)
		if name == "" {
			errors["name"] = "Quotation name is required"
		}
		if startDate != "" || finDate != "" {
			for field, msg := range services.ValidateDates(startDate, finDate) {
				errors[field] = msg
			}
		}
		for field, msg := range services.ValidateAreaBase(areaBase) {
			errors[field] = msg
		}

		if name != "" {
			existing, _ := app.FindRecordsByFilter("quotations", "name = {:name}", "", 1, 0, map[string]any{"name": name})
			if len(existing) > 0 {
				errors["name"] = "A quotation with this name already exists"
			}
		}

		if len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below", errors)
		}

		var quotationID, versionID string
		err := app.RunInTransaction(func(tx core.App) error {
			quotationsCol, err := tx.FindCollectionByNameOrId("quotations")
			if err != nil {
				return err
			}
			quotation := core.NewRecord(quotationsCol)
			quotation.Set("name", name)
			quotation.Set("client", client)
			quotation.Set("reference", reference)
			quotation.Set("start_date", startDate)
			quotation.Set("fin_date", finDate)
			if err := tx.Save(quotation); err != nil {
				return err
			}
			quotationID = quotation.Id

			versionsCol, err := tx.FindCollectionByNameOrId("quotation_versions")
			if err != nil {
				return err
			}
			version := core.NewRecord(versionsCol)
			version.Set("quotation", quotationID)
			version.Set("version_number", 1)
			version.Set("active", false)
			version.Set("area_base", areaBase)
			version.Set("change_notes", "Initial version")
			if err := tx.Save(version); err != nil {
				return err
			}
			versionID = version.Id

			if err := createDefaultAIUGroups(tx, versionID); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("quotations: could not create quotation %q: %v", name, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":         quotationID,
			"version_id": versionID,
		})
	}
}

// HandleQuotationDelete deletes a quotation; versions, lines, AIU groups and
// cashflow entries follow via cascade.
func HandleQuotationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("id")

		record, err := app.FindRecordById("quotations", quotationID)
		if err != nil {
			log.Printf("quotations: could not find quotation %s: %v", quotationID, err)
			return jsonError(e, http.StatusNotFound, "Quotation not found", nil)
		}

		if err := app.Delete(record); err != nil {
			log.Printf("quotations: failed to delete quotation %s: %v", quotationID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": quotationID})
	}
}
