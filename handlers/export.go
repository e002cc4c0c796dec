package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// buildExportData assembles everything an Excel or PDF export needs from the
// stored records of one version.
func buildExportData(app core.App, quotationID, versionID string) (*services.ExportData, error) {
	quotation, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %s not found: %w", quotationID, err)
	}
	version, err := app.FindRecordById("quotation_versions", versionID)
	if err != nil {
		return nil, fmt.Errorf("version %s not found: %w", versionID, err)
	}
	if version.GetString("quotation") != quotationID {
		return nil, fmt.Errorf("version %s does not belong to quotation %s", versionID, quotationID)
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
		return nil, fmt.Errorf("could not load lines: %w", err)
	}

	rows := make([]services.ExportRow, 0, len(lines))
	sectionCounts := make(map[services.Section]int)
	for _, line := range lines {
		section := services.Section(line.GetString("section"))
		sectionCounts[section]++
		rows = append(rows, services.ExportRow{
			Index:       strconv.Itoa(sectionCounts[section]),
			Section:     section,
			Concept:     line.GetString("concept"),
			Description: line.GetString("description"),
			Unit:        line.GetString("unit"),
			Qty:         line.GetFloat("quantity"),
			UnitPrice:   line.GetFloat("unit_price"),
			Subtotal:    line.GetFloat("subtotal"),
		})
	}

	groups, err := app.FindRecordsByFilter(
		"aiu_groups",
		"version = {:versionId}",
		"",
		0,
		0,
		map[string]any{"versionId": versionID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not load AIU groups: %w", err)
	}

	byGroup := make(map[services.AIUGroup]*core.Record, len(groups))
	for _, g := range groups {
		byGroup[services.AIUGroup(g.GetString("group"))] = g
	}
	blocks := make([]services.AIUBlock, 0, len(services.AIUGroupValues))
	for _, code := range services.AIUGroupValues {
		group := services.AIUGroup(code)
		rec, ok := byGroup[group]
		if !ok {
			continue
		}
		blocks = append(blocks, services.AIUBlock{
			Group:           group,
			Label:           services.AIUGroupLabels[group],
			DirectCost:      rec.GetFloat("direct_cost"),
			Commission:      rec.GetFloat("commission"),
			Contingency:     rec.GetFloat("contingency"),
			Logistics:       rec.GetFloat("logistics"),
			AdminSuggested:  rec.GetFloat("admin_suggested"),
			AdminFinal:      rec.GetFloat("admin_final"),
			ProfitSuggested: rec.GetFloat("profit_suggested"),
			ProfitFinal:     rec.GetFloat("profit_final"),
			TotalMarkup:     rec.GetFloat("total_markup"),
			ChapterTotal:    rec.GetFloat("chapter_total"),
		})
	}

	return &services.ExportData{
		QuotationName:      quotation.GetString("name"),
		Client:             quotation.GetString("client"),
		Reference:          quotation.GetString("reference"),
		VersionLabel:       fmt.Sprintf("Version %d", version.GetInt("version_number")),
		CreatedDate:        version.GetDateTime("created").Time().Format("2006-01-02"),
		AreaBase:           version.GetFloat("area_base"),
		Rows:               rows,
		AIUBlocks:          blocks,
		FoundationOption:   version.GetString("foundation_option"),
		FoundationResolved: version.GetFloat("total_foundation"),
		Totals: services.VersionTotals{
			Chapter1:       version.GetFloat("total_chapter1"),
			Chapter2:       version.GetFloat("total_chapter2"),
			Administration: version.GetFloat("total_administration"),
			TotalGeneral:   version.GetFloat("total_general"),
		},
	}, nil
}

// HandleVersionExportExcel streams a version as a spreadsheet download.
func HandleVersionExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		data, err := buildExportData(app, quotationID, versionID)
		if err != nil {
			log.Printf("export: could not build export data: %v", err)
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}

		content, err := services.GenerateExcel(*data)
		if err != nil {
			log.Printf("export: excel generation failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		filename := fmt.Sprintf("%s_%s.xlsx", data.QuotationName, data.VersionLabel)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return e.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
	}
}

// HandleVersionExportPDF streams a version as a PDF download.
func HandleVersionExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		data, err := buildExportData(app, quotationID, versionID)
		if err != nil {
			log.Printf("export: could not build export data: %v", err)
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}

		content, err := services.GeneratePDF(*data)
		if err != nil {
			log.Printf("export: pdf generation failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		filename := fmt.Sprintf("%s_%s.pdf", data.QuotationName, data.VersionLabel)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return e.Blob(http.StatusOK, "application/pdf", content)
	}
}

// HandleImportTemplate serves the empty line-import spreadsheet template.
func HandleImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		content, err := services.GenerateLineTemplate()
		if err != nil {
			log.Printf("export: template generation failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}
		e.Response.Header().Set("Content-Disposition", `attachment; filename="line_import_template.xlsx"`)
		return e.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
	}
}
