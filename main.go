package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/collections"
	"cotizador/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("main: no .env file loaded: %v", err)
	}

	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.NormalizeActiveVersions(app); err != nil {
			log.Printf("Warning: active version normalization failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active quotation middleware globally
		se.Router.BindFunc(handlers.ActiveQuotationMiddleware(app))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/dashboard", handlers.HandleDashboard(app))

		// ── Quotation CRUD ───────────────────────────────────────
		se.Router.GET("/quotations", handlers.HandleQuotationList(app))
		se.Router.POST("/quotations", handlers.HandleQuotationCreate(app))
		se.Router.DELETE("/quotations/{id}", handlers.HandleQuotationDelete(app))
		se.Router.POST("/quotations/{id}/select", handlers.HandleQuotationSelect(app))

		// ── Versions ─────────────────────────────────────────────
		se.Router.GET("/quotations/{quotationId}/versions", handlers.HandleVersionList(app))
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/copy", handlers.HandleVersionCopy(app))
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/activate", handlers.HandleVersionActivate(app))
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/save", handlers.HandleVersionUpdate(app))
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/copy-finals", handlers.HandleCopySuggestedToFinal(app))
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/foundation", handlers.HandleFoundationSelect(app))
		se.Router.GET("/quotations/{quotationId}/versions/{versionId}", handlers.HandleVersionView(app))
		se.Router.DELETE("/quotations/{quotationId}/versions/{versionId}", handlers.HandleVersionDelete(app))

		// ── Cost lines ───────────────────────────────────────────
		se.Router.POST("/versions/{versionId}/lines", handlers.HandleLineAdd(app))
		se.Router.PATCH("/lines/{lineId}", handlers.HandleLinePatch(app))
		se.Router.PUT("/lines/{lineId}/entries", handlers.HandleLineEntriesUpdate(app))
		se.Router.DELETE("/lines/{lineId}", handlers.HandleLineDelete(app))

		// ── Markup groups ────────────────────────────────────────
		se.Router.PATCH("/aiu-groups/{groupId}", handlers.HandleAIUGroupPatch(app))

		// ── Import ───────────────────────────────────────────────
		se.Router.GET("/import/template", handlers.HandleImportTemplate(app))
		se.Router.POST("/versions/{versionId}/import", handlers.HandleImportValidate(app))
		se.Router.POST("/versions/{versionId}/import/commit", handlers.HandleImportCommit(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/quotations/{quotationId}/versions/{versionId}/export/excel", handlers.HandleVersionExportExcel(app))
		se.Router.GET("/quotations/{quotationId}/versions/{versionId}/export/pdf", handlers.HandleVersionExportPDF(app))

		// ── Cashflow ─────────────────────────────────────────────
		se.Router.POST("/quotations/{quotationId}/versions/{versionId}/cashflow/project", handlers.HandleCashflowProject(app))
		se.Router.GET("/versions/{versionId}/cashflow", handlers.HandleCashflowReport(app))
		se.Router.PATCH("/cashflow/{entryId}", handlers.HandleCashflowPatchActual(app))

		// Redirect home to the dashboard
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/dashboard")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
