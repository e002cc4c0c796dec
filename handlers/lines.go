package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// nextSortOrder returns max(sort_order)+1 within a version.
func nextSortOrder(app core.App, versionID string) int {
	existing, err := app.FindRecordsByFilter(
		"cost_lines",
		"version = {:versionId}",
		"-sort_order",
		1,
		0,
		map[string]any{"versionId": versionID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// parseLineForm reads the cost-line fields shared by add and patch. Only
// fields present in the form are applied, so a patch can touch a single price.
func parseLineForm(e *core.RequestEvent, line *core.Record) map[string]string {
	errors := make(map[string]string)

	if e.Request.Form.Has("concept") {
		concept := strings.TrimSpace(e.Request.FormValue("concept"))
		if concept == "" {
			errors["concept"] = "Concept is required"
		}
		line.Set("concept", concept)
	}
	if e.Request.Form.Has("description") {
		line.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
	}
	if e.Request.Form.Has("unit") {
		line.Set("unit", strings.TrimSpace(e.Request.FormValue("unit")))
	}
	if e.Request.Form.Has("multi_price") {
		multi, _ := strconv.ParseBool(e.Request.FormValue("multi_price"))
		line.Set("multi_price", multi)
	}

	for _, field := range []string{"quantity", "unit_price", "price_materials", "price_equipment", "price_labor"} {
		if !e.Request.Form.Has(field) {
			continue
		}
		value, err := strconv.ParseFloat(e.Request.FormValue(field), 64)
		if err != nil {
			errors[field] = "Must be a number"
			continue
		}
		line.Set(field, value)
	}

	for field, msg := range services.ValidateCostLine(
		services.Section(line.GetString("section")),
		line.GetFloat("quantity"),
		line.GetFloat("unit_price"),
		line.GetFloat("price_materials"),
		line.GetFloat("price_equipment"),
		line.GetFloat("price_labor"),
	) {
		if _, taken := errors[field]; !taken {
			errors[field] = msg
		}
	}

	return errors
}

// HandleLineAdd appends a cost line to a version and recomputes.
func HandleLineAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		if _, err := app.FindRecordById("quotation_versions", versionID); err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}

		section := e.Request.FormValue("section")
		if !services.IsValidSection(section) {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below",
				map[string]string{"section": "Unknown section"})
		}

		col, err := app.FindCollectionByNameOrId("cost_lines")
		if err != nil {
			log.Printf("lines: could not load collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		line := core.NewRecord(col)
		line.Set("version", versionID)
		line.Set("section", section)
		line.Set("sort_order", nextSortOrder(app, versionID))

		errors := parseLineForm(e, line)
		if line.GetString("concept") == "" {
			errors["concept"] = "Concept is required"
		} else if section == string(services.SectionDesigns) {
			known := false
			for _, c := range services.DesignConcepts {
				if c == line.GetString("concept") {
					known = true
				}
			}
			if !known {
				errors["concept"] = "Unknown design discipline"
			}
		}
		if len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below", errors)
		}

		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(line); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("lines: could not save line: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		saved, err := app.FindRecordById("cost_lines", line.Id)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		return e.JSON(http.StatusCreated, lineToMap(saved))
	}
}

// HandleLinePatch updates fields of an existing cost line and recomputes.
// The section of a line never changes after creation.
func HandleLinePatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("lineId")

		line, err := app.FindRecordById("cost_lines", lineID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Line not found", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}

		if errors := parseLineForm(e, line); len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below", errors)
		}

		versionID := line.GetString("version")
		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(line); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("lines: could not save line %s: %v", lineID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		saved, err := app.FindRecordById("cost_lines", lineID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		return e.JSON(http.StatusOK, lineToMap(saved))
	}
}

// HandleLineEntriesUpdate replaces the label→value entry list of an
// admin-concept line. Only personnel and other_admin lines carry entries.
func HandleLineEntriesUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("lineId")

		line, err := app.FindRecordById("cost_lines", lineID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Line not found", nil)
		}

		section := services.Section(line.GetString("section"))
		allowed := false
		for _, s := range services.AdminSections {
			if section == s {
				allowed = true
			}
		}
		if !allowed {
			return jsonError(e, http.StatusBadRequest, "Only administration lines carry entries", nil)
		}

		var entries []services.ConceptEntry
		if err := decodeJSONBody(e, &entries); err != nil {
			log.Printf("lines: invalid entries payload for %s: %v", lineID, err)
			return jsonError(e, http.StatusBadRequest, "Invalid entries payload", nil)
		}
		for i, entry := range entries {
			if strings.TrimSpace(entry.Label) == "" {
				return jsonError(e, http.StatusBadRequest, "Please fix the errors below",
					map[string]string{"entries": "Entry " + strconv.Itoa(i+1) + " has an empty label"})
			}
		}

		raw, err := json.Marshal(entries)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid entries payload", nil)
		}
		line.Set("entries", string(raw))

		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Save(line); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, line.GetString("version"))
		})
		if err != nil {
			log.Printf("lines: could not save entries for %s: %v", lineID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		saved, err := app.FindRecordById("cost_lines", lineID)
		if err != nil {
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		return e.JSON(http.StatusOK, lineToMap(saved))
	}
}

// HandleLineDelete removes a cost line and recomputes its version.
func HandleLineDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("lineId")

		line, err := app.FindRecordById("cost_lines", lineID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Line not found", nil)
		}
		versionID := line.GetString("version")

		err = app.RunInTransaction(func(tx core.App) error {
			if err := tx.Delete(line); err != nil {
				return err
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("lines: failed to delete line %s: %v", lineID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": lineID})
	}
}
