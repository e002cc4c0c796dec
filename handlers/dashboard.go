package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
	"cotizador/templates"
)

// buildHeaderData loads the quotation dropdown for the page shell.
func buildHeaderData(app *pocketbase.PocketBase, active *ActiveQuotation) templates.HeaderData {
	header := templates.HeaderData{}
	if active != nil {
		header.ActiveQuotationID = active.ID
		header.ActiveQuotationName = active.Name
	}

	quotations, err := app.FindAllRecords("quotations")
	if err != nil {
		log.Printf("dashboard: could not load quotations for header: %v", err)
		return header
	}
	for _, q := range quotations {
		header.Quotations = append(header.Quotations, templates.QuotationOption{
			ID:   q.Id,
			Name: q.GetString("name"),
		})
	}
	return header
}

// HandleDashboard renders the dashboard for the cookie-selected quotation:
// the active version's totals, AIU breakdown, foundation comparison and
// cashflow, plus the version list.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		active := GetActiveQuotation(e.Request)
		header := buildHeaderData(app, active)

		if active == nil {
			return templates.Layout("Cotizador", header, templates.EmptyState()).
				Render(e.Request.Context(), e.Response)
		}

		versions, err := app.FindRecordsByFilter(
			"quotation_versions",
			"quotation = {:quotationId}",
			"-version_number",
			0,
			0,
			map[string]any{"quotationId": active.ID},
		)
		if err != nil {
			log.Printf("dashboard: could not load versions: %v", err)
			return e.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.DashboardData{
			QuotationID:   active.ID,
			QuotationName: active.Name,
		}

		var shown *core.Record
		for _, v := range versions {
			data.Versions = append(data.Versions, templates.VersionSummary{
				ID:            v.Id,
				VersionNumber: v.GetInt("version_number"),
				Active:        v.GetBool("active"),
				ChangeNotes:   v.GetString("change_notes"),
				TotalGeneral:  v.GetFloat("total_general"),
			})
			if v.GetBool("active") {
				shown = v
			}
		}
		// Nothing activated yet: show the newest version's numbers.
		if shown == nil && len(versions) > 0 {
			shown = versions[0]
		}

		if shown != nil {
			data.ActiveVersionID = shown.Id
			data.AreaBase = shown.GetFloat("area_base")
			data.FoundationOption = shown.GetString("foundation_option")
			data.FoundationPiles = shown.GetFloat("total_foundation_piles")
			data.FoundationPileCaps = shown.GetFloat("total_foundation_pile_caps")
			data.FoundationResolved = shown.GetFloat("total_foundation")
			data.TotalChapter1 = shown.GetFloat("total_chapter1")
			data.TotalChapter2 = shown.GetFloat("total_chapter2")
			data.TotalAdmin = shown.GetFloat("total_administration")
			data.TotalGeneral = shown.GetFloat("total_general")

			groups, err := app.FindRecordsByFilter(
				"aiu_groups",
				"version = {:versionId}",
				"",
				0,
				0,
				map[string]any{"versionId": shown.Id},
			)
			if err == nil {
				byGroup := make(map[services.AIUGroup]*core.Record, len(groups))
				for _, g := range groups {
					byGroup[services.AIUGroup(g.GetString("group"))] = g
				}
				for _, code := range services.AIUGroupValues {
					g, ok := byGroup[services.AIUGroup(code)]
					if !ok {
						continue
					}
					data.AIURows = append(data.AIURows, templates.AIURow{
						Label:           services.AIUGroupLabels[services.AIUGroup(code)],
						DirectCost:      g.GetFloat("direct_cost"),
						AdminSuggested:  g.GetFloat("admin_suggested"),
						AdminFinal:      g.GetFloat("admin_final"),
						ProfitSuggested: g.GetFloat("profit_suggested"),
						ProfitFinal:     g.GetFloat("profit_final"),
						TotalMarkup:     g.GetFloat("total_markup"),
						ChapterTotal:    g.GetFloat("chapter_total"),
					})
				}
			}

			entries, err := app.FindRecordsByFilter(
				"cashflow_entries",
				"version = {:versionId}",
				"period",
				0,
				0,
				map[string]any{"versionId": shown.Id},
			)
			if err == nil {
				for _, rec := range entries {
					data.Cashflow = append(data.Cashflow, services.CashflowRow{
						Period:        rec.GetString("period"),
						Projected:     rec.GetFloat("projected"),
						Actual:        rec.GetFloat("actual"),
						Difference:    rec.GetFloat("difference"),
						DifferencePct: rec.GetFloat("difference_pct"),
					})
				}
			}
		}

		return templates.Layout(active.Name+" — Cotizador", header, templates.Dashboard(data)).
			Render(e.Request.Context(), e.Response)
	}
}
