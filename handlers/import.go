package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

const maxImportSize = 10 << 20 // 10 MB

// readUploadedFile pulls the "file" part out of a multipart upload. The
// returned status accompanies a non-nil error.
func readUploadedFile(e *core.RequestEvent) (*services.ValidationResult, int, error) {
	if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
		return nil, http.StatusBadRequest, err
	}
	file, header, err := e.Request.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	defer file.Close()

	result, err := services.ValidateLineFile(file, header.Filename)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return result, http.StatusOK, nil
}

// HandleImportValidate parses an uploaded cost-line file and reports row-level
// validation results without writing anything.
func HandleImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")
		if _, err := app.FindRecordById("quotation_versions", versionID); err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}

		result, status, err := readUploadedFile(e)
		if err != nil {
			log.Printf("import: validation upload failed: %v", err)
			return jsonError(e, status, err.Error(), nil)
		}

		return e.JSON(http.StatusOK, result)
	}
}

// HandleImportCommit parses an uploaded cost-line file again and creates the
// valid rows as cost lines of the version. Rows with errors are skipped; the
// response reports both counts. A recompute follows the inserts.
func HandleImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")
		if _, err := app.FindRecordById("quotation_versions", versionID); err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}

		result, status, err := readUploadedFile(e)
		if err != nil {
			log.Printf("import: commit upload failed: %v", err)
			return jsonError(e, status, err.Error(), nil)
		}
		if result.ValidRows == 0 {
			return jsonError(e, http.StatusBadRequest, "No valid rows to import", nil)
		}

		created := 0
		err = app.RunInTransaction(func(tx core.App) error {
			col, err := tx.FindCollectionByNameOrId("cost_lines")
			if err != nil {
				return err
			}
			sortOrder := nextSortOrder(tx, versionID)
			for _, row := range result.ParsedRows {
				line := core.NewRecord(col)
				line.Set("version", versionID)
				line.Set("sort_order", sortOrder)
				line.Set("section", string(row.Section))
				line.Set("concept", row.Concept)
				line.Set("description", row.Description)
				line.Set("unit", row.Unit)
				line.Set("quantity", row.Quantity)
				line.Set("unit_price", row.UnitPrice)
				line.Set("price_materials", row.Materials)
				line.Set("price_equipment", row.Equipment)
				line.Set("price_labor", row.Labor)
				line.Set("multi_price", row.MultiPrice)
				if err := tx.Save(line); err != nil {
					return err
				}
				sortOrder++
				created++
			}
			return services.RecomputeVersion(tx, versionID)
		})
		if err != nil {
			log.Printf("import: could not create lines: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"created":    created,
			"skipped":    result.ErrorRows,
			"total_rows": result.TotalRows,
			"errors":     result.Errors,
		})
	}
}
