package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// HandleCashflowProject (re)builds the monthly cashflow projection for a
// version from the quotation dates and the stored total general. Projected
// amounts are rewritten; actuals already recorded for a period survive.
func HandleCashflowProject(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("quotationId")
		versionID := e.Request.PathValue("versionId")

		quotation, err := app.FindRecordById("quotations", quotationID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quotation not found", nil)
		}
		version, err := app.FindRecordById("quotation_versions", versionID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		if version.GetString("quotation") != quotationID {
			return jsonError(e, http.StatusBadRequest, "Version does not belong to this quotation", nil)
		}

		startDate := quotation.GetString("start_date")
		finDate := quotation.GetString("fin_date")
		if errors := services.ValidateDates(startDate, finDate); len(errors) > 0 {
			return jsonError(e, http.StatusBadRequest,
				"The quotation needs valid start and finish dates before projecting", errors)
		}
		start, _ := time.Parse("2006-01-02", startDate)
		fin, _ := time.Parse("2006-01-02", finDate)

		rows := services.ProjectMonthly(version.GetFloat("total_general"), start, fin)

		err = app.RunInTransaction(func(tx core.App) error {
			existing, err := tx.FindRecordsByFilter(
				"cashflow_entries",
				"version = {:versionId}",
				"period",
				0,
				0,
				map[string]any{"versionId": versionID},
			)
			if err != nil {
				return err
			}
			byPeriod := make(map[string]*core.Record, len(existing))
			for _, rec := range existing {
				byPeriod[rec.GetString("period")] = rec
			}

			col, err := tx.FindCollectionByNameOrId("cashflow_entries")
			if err != nil {
				return err
			}

			keep := make(map[string]bool, len(rows))
			for _, row := range rows {
				keep[row.Period] = true
				rec, ok := byPeriod[row.Period]
				if !ok {
					rec = core.NewRecord(col)
					rec.Set("version", versionID)
					rec.Set("period", row.Period)
				}
				rec.Set("projected", row.Projected)
				diff, pct := services.Reconcile(row.Projected, rec.GetFloat("actual"))
				rec.Set("difference", diff)
				rec.Set("difference_pct", pct)
				if err := tx.Save(rec); err != nil {
					return err
				}
			}

			// Periods outside the new date range go, unless money was booked.
			for period, rec := range byPeriod {
				if !keep[period] && rec.GetFloat("actual") == 0 {
					if err := tx.Delete(rec); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("cashflow: projection failed for version %s: %v", versionID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return cashflowReport(app, e, versionID)
	}
}

// HandleCashflowPatchActual records the actual amount billed in one period and
// refreshes the period's reconciliation figures.
func HandleCashflowPatchActual(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entryID := e.Request.PathValue("entryId")

		entry, err := app.FindRecordById("cashflow_entries", entryID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Cashflow entry not found", nil)
		}

		if err := e.Request.ParseForm(); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid form data", nil)
		}
		actual, err := strconv.ParseFloat(e.Request.FormValue("actual"), 64)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below",
				map[string]string{"actual": "Actual must be a number"})
		}
		if actual < 0 {
			return jsonError(e, http.StatusBadRequest, "Please fix the errors below",
				map[string]string{"actual": "Actual must be zero or greater"})
		}

		diff, pct := services.Reconcile(entry.GetFloat("projected"), actual)
		entry.Set("actual", actual)
		entry.Set("difference", diff)
		entry.Set("difference_pct", pct)

		if err := app.Save(entry); err != nil {
			log.Printf("cashflow: could not save entry %s: %v", entryID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":             entry.Id,
			"period":         entry.GetString("period"),
			"projected":      entry.GetFloat("projected"),
			"actual":         entry.GetFloat("actual"),
			"difference":     entry.GetFloat("difference"),
			"difference_pct": entry.GetFloat("difference_pct"),
		})
	}
}

// HandleCashflowReport returns the cashflow table of a version with totals.
func HandleCashflowReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")
		if _, err := app.FindRecordById("quotation_versions", versionID); err != nil {
			return jsonError(e, http.StatusNotFound, "Version not found", nil)
		}
		return cashflowReport(app, e, versionID)
	}
}

func cashflowReport(app core.App, e *core.RequestEvent, versionID string) error {
	entries, err := app.FindRecordsByFilter(
		"cashflow_entries",
		"version = {:versionId}",
		"period",
		0,
		0,
		map[string]any{"versionId": versionID},
	)
	if err != nil {
		log.Printf("cashflow: could not load entries: %v", err)
		return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
	}

	rows := make([]services.CashflowRow, 0, len(entries))
	var totalProjected, totalActual float64
	for _, rec := range entries {
		row := services.CashflowRow{
			Period:        rec.GetString("period"),
			Projected:     rec.GetFloat("projected"),
			Actual:        rec.GetFloat("actual"),
			Difference:    rec.GetFloat("difference"),
			DifferencePct: rec.GetFloat("difference_pct"),
		}
		totalProjected += row.Projected
		totalActual += row.Actual
		rows = append(rows, row)
	}
	totalDiff, totalPct := services.Reconcile(totalProjected, totalActual)

	ids := make([]string, 0, len(entries))
	for _, rec := range entries {
		ids = append(ids, rec.Id)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"rows": rows,
		"ids":  ids,
		"totals": map[string]any{
			"projected":      totalProjected,
			"actual":         totalActual,
			"difference":     totalDiff,
			"difference_pct": totalPct,
		},
	})
}
