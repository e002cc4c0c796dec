package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"cotizador/services"
	"cotizador/testhelpers"
)

// Test quotations run 2026-01-01 .. 2026-06-30, so projections span six months.
func TestHandleCashflowProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Flujo Básico")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)
	testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "columnas", 120, 5000)
	if err := services.RecomputeVersion(app, v.Id); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	handler := HandleCashflowProject(app)

	req := newFormRequest("/quotations/"+q.Id+"/versions/"+v.Id+"/cashflow/project", url.Values{})
	req.SetPathValue("quotationId", q.Id)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	entries, _ := app.FindRecordsByFilter(
		"cashflow_entries", "version = {:v}", "period", 0, 0,
		map[string]any{"v": v.Id},
	)
	if len(entries) != 6 {
		t.Fatalf("expected 6 monthly entries, got %d", len(entries))
	}
	// 600000 total over six months.
	for _, rec := range entries {
		if rec.GetFloat("projected") != 100000 {
			t.Errorf("period %s projected = %v, want 100000",
				rec.GetString("period"), rec.GetFloat("projected"))
		}
	}
	if entries[0].GetString("period") != "2026-01" {
		t.Errorf("first period = %s, want 2026-01", entries[0].GetString("period"))
	}
}

func TestHandleCashflowProject_PreservesActuals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Flujo Con Reales")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)
	testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "columnas", 120, 5000)
	if err := services.RecomputeVersion(app, v.Id); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	testhelpers.CreateTestCashflowEntry(t, app, v.Id, "2026-02", 0, 85000)

	handler := HandleCashflowProject(app)

	req := newFormRequest("/quotations/"+q.Id+"/versions/"+v.Id+"/cashflow/project", url.Values{})
	req.SetPathValue("quotationId", q.Id)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	entries, _ := app.FindRecordsByFilter(
		"cashflow_entries", "version = {:v} && period = '2026-02'", "", 1, 0,
		map[string]any{"v": v.Id},
	)
	if len(entries) != 1 {
		t.Fatalf("expected the 2026-02 entry to survive, got %d", len(entries))
	}
	e := entries[0]
	if e.GetFloat("actual") != 85000 {
		t.Errorf("actual = %v, want 85000 (must survive re-projection)", e.GetFloat("actual"))
	}
	if e.GetFloat("projected") != 100000 {
		t.Errorf("projected = %v, want 100000", e.GetFloat("projected"))
	}
	if e.GetFloat("difference") != -15000 {
		t.Errorf("difference = %v, want -15000", e.GetFloat("difference"))
	}
}

func TestHandleCashflowProject_MissingDates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Sin Fechas")
	q.Set("start_date", "")
	q.Set("fin_date", "")
	if err := app.Save(q); err != nil {
		t.Fatalf("save quotation: %v", err)
	}
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)

	handler := HandleCashflowProject(app)

	req := newFormRequest("/quotations/"+q.Id+"/versions/"+v.Id+"/cashflow/project", url.Values{})
	req.SetPathValue("quotationId", q.Id)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCashflowPatchActual(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Actualizar Real")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	entry := testhelpers.CreateTestCashflowEntry(t, app, v.Id, "2026-03", 1000000, 0)

	handler := HandleCashflowPatchActual(app)

	req := newFormRequest("/cashflow/"+entry.Id, url.Values{"actual": {"1100000"}})
	req.SetPathValue("entryId", entry.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("cashflow_entries", entry.Id)
	if saved.GetFloat("actual") != 1100000 {
		t.Errorf("actual = %v, want 1100000", saved.GetFloat("actual"))
	}
	if saved.GetFloat("difference") != 100000 {
		t.Errorf("difference = %v, want 100000", saved.GetFloat("difference"))
	}
	if saved.GetFloat("difference_pct") != 10 {
		t.Errorf("difference_pct = %v, want 10", saved.GetFloat("difference_pct"))
	}
}

func TestHandleCashflowPatchActual_NegativeRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Real Negativo")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	entry := testhelpers.CreateTestCashflowEntry(t, app, v.Id, "2026-03", 1000000, 0)

	handler := HandleCashflowPatchActual(app)

	req := newFormRequest("/cashflow/"+entry.Id, url.Values{"actual": {"-500"}})
	req.SetPathValue("entryId", entry.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
