package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"cotizador/testhelpers"
)

// newUploadRequest builds a multipart POST carrying one CSV file part.
func newUploadRequest(t *testing.T, target, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const importCSV = `section,concept,description,unit,quantity,unit_price
structure,columnas,Steel columns,kg,1250,8500
masonry,muros,,m2,80,45000
roofing,cubierta,,m2,0,62000
`

func TestHandleImportValidate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Importar Validación")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)

	handler := HandleImportValidate(app)

	req := newUploadRequest(t, "/versions/"+v.Id+"/import", "lines.csv", importCSV)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		TotalRows int `json:"total_rows"`
		ValidRows int `json:"valid_rows"`
		ErrorRows int `json:"error_rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TotalRows != 3 || result.ValidRows != 2 || result.ErrorRows != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	// Validation never writes.
	lines, _ := app.FindRecordsByFilter("cost_lines", "version = {:v}", "", 0, 0, map[string]any{"v": v.Id})
	if len(lines) != 0 {
		t.Errorf("expected no lines after validate, got %d", len(lines))
	}
}

func TestHandleImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Importar Commit")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	testhelpers.CreateTestAIUGroups(t, app, v.Id)

	handler := HandleImportCommit(app)

	req := newUploadRequest(t, "/versions/"+v.Id+"/import/commit", "lines.csv", importCSV)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Created int `json:"created"`
		Skipped int `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Created != 2 || result.Skipped != 1 {
		t.Errorf("created = %d, skipped = %d; want 2, 1", result.Created, result.Skipped)
	}

	lines, _ := app.FindRecordsByFilter("cost_lines", "version = {:v}", "sort_order", 0, 0, map[string]any{"v": v.Id})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// The committed lines were rolled up: 1250*8500 + 80*45000.
	updated, _ := app.FindRecordById("quotation_versions", v.Id)
	if updated.GetFloat("total_chapter1") != 14225000 {
		t.Errorf("total_chapter1 = %v, want 14225000", updated.GetFloat("total_chapter1"))
	}
}

func TestHandleImportCommit_NoValidRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Importar Vacío")
	v := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)

	handler := HandleImportCommit(app)

	csv := "section,concept,quantity,unit_price\nroofing,teja,0,100\n"
	req := newUploadRequest(t, "/versions/"+v.Id+"/import/commit", "lines.csv", csv)
	req.SetPathValue("versionId", v.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleImportValidate_VersionNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleImportValidate(app)

	req := newUploadRequest(t, "/versions/missing/import", "lines.csv", importCSV)
	req.SetPathValue("versionId", "missing")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
