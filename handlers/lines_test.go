package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/dbx"

	"cotizador/services"
	"cotizador/testhelpers"
)

func TestHandleLineAdd_RecomputesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Agregar Línea")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"structure"},
		"concept":    {"columnas"},
		"unit":       {"kg"},
		"quantity":   {"100"},
		"unit_price": {"5000"},
	}
	req := newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, _ := app.FindRecordById("quotation_versions", v.Id)
	if updated.GetFloat("total_chapter1") != 500000 {
		t.Errorf("total_chapter1 = %v, want 500000", updated.GetFloat("total_chapter1"))
	}
	if updated.GetFloat("total_general") != 500000 {
		t.Errorf("total_general = %v, want 500000", updated.GetFloat("total_general"))
	}
}

func TestHandleLineAdd_RoofingZeroQuantityRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Cubierta Inválida")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"roofing"},
		"concept":    {"teja"},
		"quantity":   {"0"},
		"unit_price": {"62000"},
	}
	req := newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quantity") {
		t.Errorf("expected a quantity field error, got %s", rec.Body.String())
	}

	lines, _ := app.FindRecordsByFilter("cost_lines", "version = {:v}", "", 0, 0, map[string]any{"v": v.Id})
	if len(lines) != 0 {
		t.Errorf("expected no lines created, got %d", len(lines))
	}
}

func TestHandleLineAdd_ZeroQuantityAllowedElsewhere(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Placeholder")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"structure"},
		"concept":    {"pendiente de cotizar"},
		"quantity":   {"0"},
		"unit_price": {"0"},
	}
	req := newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLineAdd_NegativePriceRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Precio Negativo")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"masonry"},
		"concept":    {"muros"},
		"quantity":   {"10"},
		"unit_price": {"-500"},
	}
	req := newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLinePatch_UpdatesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Editar Línea")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)
	line := testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "columnas", 100, 5000)
	if err := services.RecomputeVersion(app, v.Id); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	handler := HandleLinePatch(app)

	form := url.Values{"quantity": {"200"}}
	req := newFormRequest("/lines/"+line.Id, form)
	req.SetPathValue("lineId", line.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("cost_lines", line.Id)
	if saved.GetFloat("subtotal") != 1000000 {
		t.Errorf("subtotal = %v, want 1000000", saved.GetFloat("subtotal"))
	}
	updated, _ := app.FindRecordById("quotation_versions", v.Id)
	if updated.GetFloat("total_general") != 1000000 {
		t.Errorf("total_general = %v, want 1000000", updated.GetFloat("total_general"))
	}
}

func TestHandleLineEntriesUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Entradas Admin")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)
	line := testhelpers.CreateTestLine(t, app, v.Id, services.SectionOtherAdmin, "pólizas", 0, 0)

	handler := HandleLineEntriesUpdate(app)

	body := `[{"label":"Todo riesgo","value":950000},{"label":"Cumplimiento","value":450000}]`
	req := httptest.NewRequest(http.MethodPut, "/lines/"+line.Id+"/entries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("lineId", line.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("cost_lines", line.Id)
	if saved.GetFloat("subtotal") != 1400000 {
		t.Errorf("subtotal = %v, want 1400000", saved.GetFloat("subtotal"))
	}
	updated, _ := app.FindRecordById("quotation_versions", v.Id)
	if updated.GetFloat("total_administration") != 1400000 {
		t.Errorf("total_administration = %v, want 1400000", updated.GetFloat("total_administration"))
	}
}

func TestHandleLineEntriesUpdate_RejectsNonAdminSection(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Entradas Estructura")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	line := testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "columnas", 10, 5000)

	handler := HandleLineEntriesUpdate(app)

	req := httptest.NewRequest(http.MethodPut, "/lines/"+line.Id+"/entries",
		strings.NewReader(`[{"label":"x","value":1}]`))
	req.SetPathValue("lineId", line.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLineDelete_RecomputesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Borrar Línea")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)
	keep := testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "columnas", 100, 5000)
	drop := testhelpers.CreateTestLine(t, app, v.Id, services.SectionStructure, "vigas", 50, 2000)
	if err := services.RecomputeVersion(app, v.Id); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	handler := HandleLineDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/lines/"+drop.Id, nil)
	req.SetPathValue("lineId", drop.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("cost_lines", drop.Id); err == nil {
		t.Error("expected the line to be gone")
	}
	if _, err := app.FindRecordById("cost_lines", keep.Id); err != nil {
		t.Error("the other line must survive")
	}

	updated, _ := app.FindRecordById("quotation_versions", v.Id)
	if updated.GetFloat("total_general") != 500000 {
		t.Errorf("total_general = %v, want 500000", updated.GetFloat("total_general"))
	}
}

func TestHandleLineAdd_UnknownDesignConceptRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Diseño Desconocido")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"designs"},
		"concept":    {"paisajismo"},
		"unit_price": {"4000"},
	}
	req := newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// A catalogued discipline passes.
	form.Set("concept", "arq")
	req = newFormRequest("/versions/"+v.Id+"/lines", form)
	req.SetPathValue("versionId", v.Id)
	rec = httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for a known discipline, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLineAdd_FailedRecomputePersistsNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Recompute Fallido")
	v1 := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	v2 := testhelpers.CreateTestVersion(t, app, q.Id, 2, false)
	testhelpers.CreateTestAIUGroups(t, app, v1.Id)

	// Corrupt the data with raw SQL so the version save inside the recompute
	// pass fails its write-time guard.
	if _, err := app.DB().NewQuery("UPDATE quotation_versions SET active = 1 WHERE id = {:id}").
		Bind(dbx.Params{"id": v2.Id}).Execute(); err != nil {
		t.Fatalf("raw activate: %v", err)
	}

	handler := HandleLineAdd(app)

	form := url.Values{
		"section":    {"structure"},
		"concept":    {"columnas"},
		"quantity":   {"10"},
		"unit_price": {"5000"},
	}
	req := newFormRequest("/versions/"+v1.Id+"/lines", form)
	req.SetPathValue("versionId", v1.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the recompute fails, got %d: %s", rec.Code, rec.Body.String())
	}

	lines, _ := app.FindRecordsByFilter(
		"cost_lines", "version = {:v}", "", 0, 0, map[string]any{"v": v1.Id},
	)
	if len(lines) != 0 {
		t.Errorf("the line must roll back with the failed recompute, %d persisted", len(lines))
	}
}
